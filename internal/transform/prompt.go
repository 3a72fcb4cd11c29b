package transform

import (
	"fmt"
	"strings"

	"github.com/revathi-prasad/ai-builders-podcast/internal/language"
)

const (
	promptTermExamples    = 15
	promptAcceptableWords = 10
)

func enhancedPrompt(source, target *language.Pack, formatted, topic, reference string) string {
	lang := target.Code
	upper := strings.ToUpper(lang)
	g := target.Guidelines
	mapping := hostMappingLines(target)

	var b strings.Builder
	b.WriteString("# CRITICAL NATURAL LANGUAGE TRANSFORMATION TASK\n\n")

	fmt.Fprintf(&b, "## PRIMARY OBJECTIVE: 90%% %s RULE\n", upper)
	fmt.Fprintf(&b, "Transform this content so that AT LEAST 90%% is in pure %s, with minimal English words.\n\n", lang)

	fmt.Fprintf(&b, "## Original Content (%s)\n", source.Code)
	fmt.Fprintf(&b, "Topic: %s\n\n%s\n\n", topic, formatted)

	b.WriteString("## STRICT TRANSFORMATION RULES\n\n")
	b.WriteString("### Rule 1: LANGUAGE-SPECIFIC NAMES (CRITICAL!)\n")
	b.WriteString(mapping)
	for _, t := range target.SourceTitles {
		if t != target.PodcastTitle {
			fmt.Fprintf(&b, "- ALWAYS replace '%s' with '%s'\n", t, target.PodcastTitle)
		}
	}
	b.WriteString("\n")

	b.WriteString("### Rule 2: MANDATORY EXPLANATIONS\n")
	b.WriteString("EVERY technical term MUST be explained in the same sentence when first mentioned.\n\n")

	if len(target.Terminology) > 0 {
		b.WriteString("### Rule 3: TERMINOLOGY REPLACEMENT\n")
		for i, term := range target.Terminology {
			if i == promptTermExamples {
				break
			}
			fmt.Fprintf(&b, "Wrong: '%s' -> Right: '%s'\n", term.Term, term.Native)
		}
		b.WriteString("\n")
	}

	if len(target.AcceptableEnglish) > 0 {
		b.WriteString("### Rule 4: ACCEPTABLE ENGLISH (Only these words can stay as-is)\n")
		words := target.AcceptableEnglish
		if len(words) > promptAcceptableWords {
			words = words[:promptAcceptableWords]
		}
		b.WriteString(strings.Join(words, ", "))
		b.WriteString("\nALL other English words MUST be replaced or explained.\n\n")
	}

	if len(target.Analogies) > 0 {
		b.WriteString("### Rule 5: CULTURAL ANALOGIES REQUIRED\n")
		fmt.Fprintf(&b, "%s Cultural Analogies:\n", target.DisplayName)
		for _, a := range target.Analogies {
			fmt.Fprintf(&b, "- %s -> \"%s\"\n", a.Concept, a.Analogy)
		}
		b.WriteString("\n")
	}

	b.WriteString("### Rule 6: CONVERSATIONAL FLOW\n")
	if g.Setting != "" {
		fmt.Fprintf(&b, "- Sound like friends discussing over %s\n", g.Setting)
	}
	if g.Interjections != "" {
		fmt.Fprintf(&b, "- Use natural interruptions: %s\n", g.Interjections)
	}
	if g.Enthusiasm != "" {
		fmt.Fprintf(&b, "- Include enthusiasm: %s\n", g.Enthusiasm)
	}
	b.WriteString("\n")

	b.WriteString("## TRANSFORMATION PATTERNS\n\n")
	b.WriteString("### Pattern A: Explain-Then-Use\n")
	b.WriteString("Explain a term the first time it appears, then use it plainly.\n\n")
	if g.AnalogyExample != "" {
		fmt.Fprintf(&b, "### Pattern B: Analogy-First\n%s\n\n", g.AnalogyExample)
	}
	if g.CulturalReferences != "" {
		fmt.Fprintf(&b, "### Pattern C: Cultural Context\nUse examples from %s that people relate to.\n\n", g.CulturalReferences)
	}
	if g.ForbiddenExample != "" && g.PreferredExample != "" {
		fmt.Fprintf(&b, "## FORBIDDEN PATTERNS\n\nWrong: %s\n\nRight: %s\n\n", g.ForbiddenExample, g.PreferredExample)
	}

	b.WriteString("## QUALITY CHECKLIST\n")
	b.WriteString("Before finalizing, ensure:\n")
	fmt.Fprintf(&b, "- 90%%+ content is in %s\n", lang)
	b.WriteString("- All technical terms are explained\n")
	b.WriteString("- Cultural analogies are used\n")
	b.WriteString("- Sounds like natural conversation\n")
	b.WriteString("- Energy and enthusiasm is maintained\n")
	fmt.Fprintf(&b, "- Host names are correctly mapped:\n%s", mapping)
	fmt.Fprintf(&b, "- Podcast title is correctly used: %s\n\n", target.PodcastTitle)

	if ref := strings.TrimSpace(reference); ref != "" {
		fmt.Fprintf(&b, "## Reference Material for Context\n%s\n\n", ref)
		b.WriteString("Use this to enrich the transformation while maintaining natural language flow.\n\n")
	}

	b.WriteString("## OUTPUT FORMAT\n")
	b.WriteString("Transform each segment maintaining natural conversation flow:\n")
	fmt.Fprintf(&b, "SPEAKER: [Natural %s content with cultural adaptation]\n", lang)
	b.WriteString("Keep bracketed music cues such as [INTRO MUSIC] on their own line, unchanged.\n\n")
	setting := g.Setting
	if setting == "" {
		setting = "coffee"
	}
	fmt.Fprintf(&b, "REMEMBER: This should sound like two intelligent friends excitedly discussing AI over %s, NOT a formal presentation!\n", setting)
	return b.String()
}

func strictPrompt(target *language.Pack, formatted string) string {
	lang := target.Code
	var b strings.Builder
	b.WriteString("# ULTRA-STRICT NATURAL LANGUAGE TRANSFORMATION\n\n")
	b.WriteString("## EMERGENCY MODE: MAXIMUM NATURAL LANGUAGE\n\n")
	fmt.Fprintf(&b, "Original content:\n%s\n\n", formatted)
	b.WriteString("## ABSOLUTE REQUIREMENTS:\n")
	fmt.Fprintf(&b, "1. 95%% content MUST be in %s\n", lang)
	b.WriteString("2. EVERY English word MUST be explained or replaced\n")
	b.WriteString("3. Use ONLY everyday conversation words\n")
	b.WriteString("4. Add cultural examples for EVERY concept\n\n")
	b.WriteString("## FORBIDDEN:\n")
	b.WriteString("- Any English word longer than 3 letters (except: AI, app, GPS, Wi-Fi)\n")
	b.WriteString("- Technical jargon without explanation\n")
	b.WriteString("- Formal language\n\n")
	b.WriteString("## REQUIRED:\n")
	b.WriteString("- Grandmother-friendly explanations\n")
	if refs := target.Guidelines.CulturalReferences; refs != "" {
		fmt.Fprintf(&b, "- Local analogies (%s)\n", refs)
	}
	b.WriteString("- Enthusiastic tone like friends chatting\n\n")
	b.WriteString(hostMappingLines(target))
	b.WriteString("Format every turn as SPEAKER: text.\n\n")
	setting := target.Guidelines.Setting
	if setting == "" {
		setting = "coffee"
	}
	fmt.Fprintf(&b, "Transform this to sound like two excited friends discussing AI over %s:\n", setting)
	return b.String()
}

func hostMappingLines(target *language.Pack) string {
	var b strings.Builder
	for _, m := range target.HostMapping {
		fmt.Fprintf(&b, "- ALWAYS replace '%s' with '%s' consistently throughout\n", m.Source, strings.ToUpper(m.Target))
	}
	return b.String()
}
