package personality

import (
	"fmt"
	"sort"
	"strings"

	"github.com/revathi-prasad/ai-builders-podcast/internal/language"
	"github.com/revathi-prasad/ai-builders-podcast/internal/research"
)

func episodePrompt(pack *language.Pack, host1, host2 language.Host, req EpisodeRequest) string {
	length := LengthFor(pack.Code, req.Type)
	plan := PlanFor(req.Type, req.Topic, req.EpisodeNumber)
	name1, name2 := host1.Name(), host2.Name()

	var b strings.Builder
	b.WriteString("# Podcast Episode Generation\n\n")

	b.WriteString("## Podcast Information\n")
	fmt.Fprintf(&b, "- Podcast Title: %s\n", req.PodcastTitle)
	fmt.Fprintf(&b, "- Episode Topic: %q\n", req.Topic)
	fmt.Fprintf(&b, "- Language: %s\n", pack.Code)
	fmt.Fprintf(&b, "- Episode Number: %d\n", req.EpisodeNumber)
	fmt.Fprintf(&b, "- Episode Type: %s\n", req.Type)
	if req.CulturalFocus != "" {
		fmt.Fprintf(&b, "- Cultural Focus: %s\n", req.CulturalFocus)
	}
	if req.DurationMinutes > 0 {
		fmt.Fprintf(&b, "- Target Duration: %d minutes\n", req.DurationMinutes)
	}
	b.WriteString("\n")

	b.WriteString("## Host Personalities\n")
	fmt.Fprintf(&b, "### %s\n%s\n\n", name1, host1.Persona)
	fmt.Fprintf(&b, "### %s\n%s\n\n", name2, host2.Persona)

	writeCulturalContext(&b, pack)
	writeGuidelines(&b, pack)
	b.WriteString(transitionGuidance(req.EpisodeNumber))
	b.WriteString("\n")

	if len(pack.Analogies) > 0 {
		b.WriteString("## Regional Examples to Include:\n")
		for _, a := range pack.Analogies {
			fmt.Fprintf(&b, "- %s: %s\n", a.Concept, a.Analogy)
		}
		b.WriteString("\n")
	}
	if req.Research != nil && !req.Research.Empty() {
		b.WriteString(researchSection(*req.Research))
	}
	if ref := strings.TrimSpace(req.Reference); ref != "" {
		b.WriteString("## Reference Material\nUse the following reference material to enrich the conversation:\n\n")
		b.WriteString(ref)
		b.WriteString("\n\n")
	}

	b.WriteString("## Episode Structure\n")
	fmt.Fprintf(&b, "Create a natural, flowing conversation between %s and %s covering these segments:\n\n", name1, name2)
	for i, seg := range plan {
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, seg.Topic, seg.Guidance)
	}
	b.WriteString("\n")

	b.WriteString("## Output Guidelines\n")
	rules := []string{
		"Create a coherent, natural conversation where each host takes turns speaking",
		fmt.Sprintf("Each segment should be %d-%d words long", length.MinWords, length.MaxWords),
		fmt.Sprintf("Start with %s for the first segment, then alternate hosts", name1),
		"Make the conversation flow naturally between segments",
		"Each host should speak in their distinct personality and style",
		"AVOID repetitive introductions - hosts should NOT introduce themselves again after the standard intro",
		"Include occasional short responses (agreement, questions) to create natural dialogue",
		fmt.Sprintf("Use appropriate terminology and cultural references for the %s context", pack.Code),
		fmt.Sprintf("Format each turn as \"%s: [dialogue]\" or \"%s: [dialogue]\"", name1, name2),
		"Incorporate region-specific examples to explain complex AI concepts",
		"If using research data, integrate it naturally without making the conversation feel academic",
	}
	for i, r := range rules {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r)
	}
	fmt.Fprintf(&b, "\nGenerate exactly %d segments of dialogue, alternating between hosts.\n", length.Segments)
	return b.String()
}

func writeCulturalContext(b *strings.Builder, pack *language.Pack) {
	c := pack.Cultural
	b.WriteString("## Cultural Context\n")
	fmt.Fprintf(b, "- Business Focus: %s\n", c.BusinessFocus)
	fmt.Fprintf(b, "- Communication Style: %s\n", c.CommunicationStyle)
	fmt.Fprintf(b, "- Relevant Examples: %s\n", strings.Join(c.Examples, ", "))
	fmt.Fprintf(b, "- Tech Adoption: %s\n\n", c.TechAdoption)
}

func writeGuidelines(b *strings.Builder, pack *language.Pack) {
	g := pack.Guidelines
	if g.Style == "" && len(g.Principles) == 0 {
		return
	}
	fmt.Fprintf(b, "## Language Guidelines for %s\n", pack.Code)
	fmt.Fprintf(b, "Style: %s\n\n### Principles:\n", g.Style)
	for _, p := range g.Principles {
		fmt.Fprintf(b, "- %s\n", p)
	}
	b.WriteString("\n")
}

func transitionGuidance(episodeNumber int) string {
	if episodeNumber == 0 {
		return `## Transition Guidance
This is the introduction/first episode of the podcast series.
- The standard intro (already played before this conversation starts) briefly introduces the hosts and podcast concept
- Begin your conversation by expanding on these topics, but DON'T repeat the exact same introduction
- Focus on adding depth to the podcast's mission and approach
- Assume listeners have heard a brief introduction to who you are but want more details
`
	}
	return `## Transition Guidance
This is NOT the first episode of the series.
- The podcast already has a standard intro where hosts briefly introduce themselves and the podcast concept
- Your conversation should begin as if that introduction has already happened
- DO NOT repeat introductions or re-explain who you are
- Begin with a smooth transition into the first topic, assuming listeners already know who you are
- For example, start with something like "So let's talk about our approach to building with AI..." rather than introducing yourselves again
`
}

func researchSection(r research.Result) string {
	var b strings.Builder
	b.WriteString("## Research Data\nUse the following research data to inform the conversation:\n\n")
	fmt.Fprintf(&b, "### Summary\n%s\n\n", r.Summary)
	b.WriteString("### Key Points\n")
	for _, p := range r.KeyPoints {
		fmt.Fprintf(&b, "- %s\n", p)
	}
	b.WriteString("\n### Examples\n")
	for _, e := range r.Examples {
		fmt.Fprintf(&b, "- %s\n", e)
	}
	if len(r.Regional) > 0 {
		b.WriteString("\n### Regional Insights\n")
		regions := make([]string, 0, len(r.Regional))
		for region := range r.Regional {
			regions = append(regions, region)
		}
		sort.Strings(regions)
		for _, region := range regions {
			fmt.Fprintf(&b, "#### %s\n", region)
			for _, insight := range r.Regional[region] {
				fmt.Fprintf(&b, "- %s\n", insight)
			}
		}
	}
	b.WriteString("\n")
	return b.String()
}

func culturalPrompt(pack *language.Pack, host language.Host, topic, context string) string {
	c := pack.Cultural
	var b strings.Builder
	b.WriteString(host.Persona)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Cultural Context: %s\n", c.BusinessFocus)
	fmt.Fprintf(&b, "Communication Style: %s\n", c.CommunicationStyle)
	fmt.Fprintf(&b, "Relevant Examples: %s\n\n", strings.Join(c.Examples, ", "))
	writeGuidelines(&b, pack)
	fmt.Fprintf(&b, "Current Topic: %s\n", topic)
	fmt.Fprintf(&b, "Conversation Context: %s\n\n", context)
	fmt.Fprintf(&b, "Respond naturally in %s, staying in character. Create a paragraph of 100-150 words,\n", pack.Code)
	b.WriteString("conversational and engaging. Include cultural references that resonate with your audience.\n")
	return b.String()
}
