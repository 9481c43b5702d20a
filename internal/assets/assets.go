// Package assets bundles static content shipped with the binary.
package assets

import _ "embed"

// SampleGuideHTML is a complete example guide used by the demo
// endpoint and the demo command, so the pipeline can be exercised
// without an API key or an uploaded deck.
//
//go:embed sample_guide.html
var SampleGuideHTML string

// SampleGuideName is the download name paired with the sample guide.
const SampleGuideName = "Sample_Lesson_Introduction_to_AI"
