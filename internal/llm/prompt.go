package llm

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/lithammer/dedent"
)

// OutfitPrompt asks for the six numbered sections the report parser reads.
var OutfitPrompt = strings.TrimSpace(dedent.Dedent(`
	Analyze this outfit and provide a structured response with the following:
	1. Description: Overall style and vibe
	2. Color Tones: Main colors and their combinations
	3. Core Apparel: Main clothing pieces
	4. Accessories: Any accessories or additional items
	5. Fashion Tips: Styling suggestions and recommendations
	6. Similar Items: Suggest 3 similar items that could be found on Nordstrom, including name, brief description, and estimated price range
`))

// PromptHash returns a stable identifier for a prompt, used in logs.
func PromptHash(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])[:12]
}
