package assistant

import "strings"

const promptTemplate = `You are an expert metalworker. Read the description of a guardrail project and extract the values needed to pre-fill a fabrication form.

Project description:
---
{{description}}
---

Task:
Return the values as strict JSON.
- Work out the number of pieces (independent runs of railing).
- For each piece, describe its structure as alternating joints ("post" or "link") and "section" items. A section has a "length" in millimetres.
- Omit any value the description does not give.

Example of the expected output:
` + "```json" + `
{
  "piece_count": 2,
  "overall_height": 1020,
  "post_dims": "40x40",
  "pieces": [
    {
      "section_count": 1,
      "structure": [
        {"type": "post"},
        {"type": "section", "length": 3000},
        {"type": "link"}
      ]
    },
    {
      "section_count": 1,
      "structure": [
        {"type": "link"},
        {"type": "section", "length": 4000},
        {"type": "post"}
      ]
    }
  ]
}
` + "```" + `

Other keys you may fill: "identical_pieces", "baseline_height", "link_dims", "top_rail_dims", "bottom_rail_dims", "bar_dims", "max_gap".

Output the JSON only.
`

func buildPrompt(description string) string {
	return strings.Replace(promptTemplate, "{{description}}", strings.TrimSpace(description), 1)
}
