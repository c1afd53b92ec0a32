package analysis

import (
	"fmt"
	"strings"

	"fablelens.app/analyzer/internal/model"
)

// The prompt text below is load-bearing: the generation quality was
// tuned against these exact strings, so they are assembled verbatim.

const (
	summaryPromptPrefix   = "Please provide a detailed summary of the key events from the following novel:\n\n"
	translatePromptPrefix = "Translate the following English text into Korean:\n\n"
)

const personaPromptTemplate = `
You are the character '%s'.
Your personality is defined by the Big 5 model (OCEAN). Based on the provided plot summary, recount the story as if you personally experienced these events. Your narrative should be a first-person account that strongly reflects your unique personality profile through your inner thoughts, feelings, and reactions.
The story must be written in Korean.

---
**Character's Big 5 Personality Profile:**
%s
---

**Original Plot Summary:**
%s
`

func SummaryPrompt(novelText string) string {
	return summaryPromptPrefix + novelText
}

func TranslatePrompt(text string) string {
	return translatePromptPrefix + text
}

func PersonaPrompt(characterName string, profile model.PersonaProfile, baseSummary string) string {
	return fmt.Sprintf(personaPromptTemplate, characterName, ProfileBlock(profile), baseSummary)
}

// ProfileBlock renders the five OCEAN traits with their Korean
// descriptors, one line per trait.
func ProfileBlock(profile model.PersonaProfile) string {
	lines := []string{
		fmt.Sprintf("- **개방성:** %s (%d/100)", traitDescriptor(profile.Openness), profile.Openness),
		fmt.Sprintf("- **성실성:** %s (%d/100)", traitDescriptor(profile.Conscientiousness), profile.Conscientiousness),
		fmt.Sprintf("- **외향성:** %s (%d/100)", traitDescriptor(profile.Extraversion), profile.Extraversion),
		fmt.Sprintf("- **우호성:** %s (%d/100)", traitDescriptor(profile.Agreeableness), profile.Agreeableness),
		fmt.Sprintf("- **신경성(부정적 정서):** %s (%d/100)", traitDescriptor(profile.Neuroticism), profile.Neuroticism),
	}
	return strings.Join(lines, "\n")
}

func traitDescriptor(score int) string {
	switch {
	case score > 80:
		return "매우 높음"
	case score > 60:
		return "높음"
	case score > 40:
		return "보통"
	case score > 20:
		return "낮음"
	default:
		return "매우 낮음"
	}
}
