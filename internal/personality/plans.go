package personality

import "fmt"

// SegmentPlan is one outline entry handed to the model.
type SegmentPlan struct {
	Topic    string
	Guidance string
}

// PlanFor returns the segment outline for an episode. Types without a plan
// of their own use the introduction plan.
func PlanFor(t EpisodeType, topic string, episodeNumber int) []SegmentPlan {
	switch t {
	case Build:
		return buildPlan(topic)
	case Conversation:
		return conversationPlan(topic)
	default:
		return introductionPlan(episodeNumber)
	}
}

func introductionPlan(episodeNumber int) []SegmentPlan {
	if episodeNumber == 0 {
		return []SegmentPlan{
			{"Our building-focused approach", "After the standard intro, expand on how this podcast emphasizes practical building over theory. Focus on the positive aspects of showing real implementation processes rather than criticizing other resources."},
			{"What 'building with AI' really means", "Explain what practical AI building looks like - discuss the journey from problem identification to working solution. Emphasize showing actual development processes including challenges and iterations."},
			{"Making AI accessible across regions", "Discuss how the podcast will adapt AI solutions for different cultural and regional contexts. Highlight the importance of solutions that work for local needs beyond tech hubs."},
			{"Our multilingual commitment", "Explain the podcast's approach to making AI knowledge accessible in multiple languages. Emphasize that this isn't just translation but culturally adapted content."},
			{"Types of episodes to expect", "Outline the different episode formats (build episodes, interviews, etc.) and what listeners will gain from each."},
			{"The AI Builders community vision", "Describe the community you're hoping to build - focus on collaborative learning and knowledge sharing rather than one-way teaching."},
			{"Who will benefit most", "Discuss what different types of listeners (beginners, experts, businesses, etc.) will gain from the podcast."},
			{"Real problems, real solutions", "Emphasize that episodes will tackle authentic challenges with practical implementations, not theoretical concepts."},
			{"Learning through building", "Explore how the act of building leads to deeper understanding than just studying theory."},
			{"Looking ahead", "Preview upcoming episode topics and invite listeners to suggest areas they'd like to see covered."},
		}
	}
	return []SegmentPlan{
		{"Brief welcome and topic focus", "Briefly welcome listeners and immediately focus on this episode's specific topic. Do NOT reintroduce yourselves."},
		{"Why this topic matters now", "Discuss why this specific topic is relevant and timely in the current AI landscape."},
		{"Key challenges in this area", "Outline the main challenges or problems that will be addressed in this episode."},
		{"Our approach to this topic", "Explain how you'll approach this topic, emphasizing the practical, building-focused method."},
		{"Regional considerations", "Discuss any regional or cultural factors that influence this topic."},
		{"Who needs to understand this", "Identify the specific audiences who would benefit most from this episode."},
		{"Applications and use cases", "Explore some real-world applications or use cases related to the topic."},
		{"Technical vs. practical aspects", "Distinguish between the theoretical/technical aspects and the practical implementation details."},
		{"Common misconceptions", "Address any common misconceptions or misunderstandings about the topic."},
		{"Episode roadmap", "Outline what listeners can expect to learn through the rest of this episode."},
	}
}

func buildPlan(topic string) []SegmentPlan {
	return []SegmentPlan{
		{fmt.Sprintf("Today's building challenge: %s", topic), "After the standard intro, dive directly into explaining the specific problem you'll tackle in this episode. No need to reintroduce yourselves."},
		{"Why this problem matters", "Explain why this problem is important to solve and who would benefit from the solution."},
		{"Current approaches and limitations", "Discuss existing solutions and their limitations without unnecessary criticism."},
		{"Our approach overview", "Outline the solution approach you'll be taking."},
		{"Architectural decisions", "Discuss key technical decisions and trade-offs."},
		{"Potential challenges", "Anticipate difficulties and how you might overcome them."},
		{"Building process", "Describe the actual development process and tools."},
		{"Testing approach", "Discuss how the solution will be validated and tested."},
		{"User experience considerations", "Consider how end users will interact with the solution."},
		{"Regional adaptation", "Discuss how the solution might be adapted for different regions/cultures."},
		{"Learning and iterations", "Discuss what you've learned and how you'd improve the solution."},
		{"Key takeaways", "Summarize the most important insights from the build process."},
	}
}

func conversationPlan(topic string) []SegmentPlan {
	return []SegmentPlan{
		{fmt.Sprintf("Introducing today's topic: %s", topic), "After the standard intro, dive directly into this episode's specific topic. No need to reintroduce yourselves."},
		{"Key concepts and definitions", "Define important terms and concepts related to the topic."},
		{"Current state of the field", "Discuss the current landscape and recent developments."},
		{"Key challenges", "Analyze the main difficulties and obstacles in this area."},
		{"Emerging opportunities", "Discuss promising new directions and opportunities."},
		{"Regional perspectives", "Discuss how this topic is viewed differently across regions."},
		{"Real-world examples", "Share concrete examples and case studies."},
		{"Future trends", "Predict how this area might evolve in the near future."},
		{"Practical advice", "Offer actionable insights for listeners."},
		{"Resources for learning more", "Suggest ways for listeners to explore this topic further."},
	}
}
