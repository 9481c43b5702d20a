package generate

import (
	"fmt"

	"github.com/nmalhotra/guidepress/core"
)

// guidePrompt instructs the model to emit guide markup in the fixed
// section hierarchy the renderers expect. Placeholders are the deck
// name and the extracted slide text.
const guidePrompt = `You are a professional curriculum designer.

Generate a complete Teacher Guide in clean semantic HTML format.

IMPORTANT RULES:
- Return ONLY HTML.
- Do NOT wrap in markdown.
- Do NOT add explanations.
- Use <h1>, <h2>, <h3>, <p>, <ul>, <li>, <strong>.
- Follow the exact hierarchy provided below.

Structure:

<h1>Session Title</h1>

<h2>Session Overview</h2>
<p>...</p>

<h2>Learning Objectives</h2>
<ul>
  <li>...</li>
</ul>

<h2>Preparation</h2>
<p>...</p>

<h2>Lesson Procedure</h2>
<h3>Initiate</h3>
<p>...</p>

<h3>Learn</h3>
<p>...</p>

<h3>Make</h3>
<p>...</p>

<h3>Share</h3>
<p>...</p>

<h2>Glossary</h2>
<ul>
  <li><strong>Term:</strong> Definition</li>
</ul>

<h2>Bonus Activities</h2>
<p>...</p>

Use clear academic language similar to an official Teacher Guide.
Audience: Write for TEACHERS, not students.

FILE NAME: %s

Session content:
%s
`

func buildPrompt(deck core.DeckText) string {
	return fmt.Sprintf(guidePrompt, deck.Name, deck.Text)
}
