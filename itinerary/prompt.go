package itinerary

import (
	"fmt"
	"strings"
)

const schemaRules = `Return ONLY valid JSON (no markdown, no extra text) exactly in this shape:
{
  "title": string,
  "summary": string,
  "days": [
    {
      "day": number,
      "base": string,
      "transport": string[],
      "plan": string[],
      "food": string,
      "cost_usd": {
        "transport": number,
        "food": number,
        "hotel": number,
        "activities": number,
        "total": number
      }
    }
  ],
  "tips": string[]
}

Rules:
- Use ONLY locations within Sri Lanka. If the user provided a non-Sri-Lanka place, replace it with a similar Sri Lanka destination.
- Optimize route order between cities if needed (still respect preferences).
- Keep it VERY short:
  - plan: max 2 items per day
  - transport: max 2 items per day
  - tips: max 3 items
  - summary: 1-2 sentences
- Costs are APPROX estimates in USD; keep numbers realistic and rounded.
- Keep the whole response compact (aim ~100-150 words worth of text inside JSON).`

func buildPrompt(req TripRequest) string {
	var cities strings.Builder
	for i, c := range req.Cities {
		fmt.Fprintf(&cities, "%d. %s\n", i+1, c)
	}

	return fmt.Sprintf(`Create a balanced Sri Lanka itinerary.

Selected cities (preference order):
%s
Trip length (days): %d
Travelers: %d
Style: %s

%s`, cities.String(), req.Days, req.Travelers, req.Style, schemaRules)
}
