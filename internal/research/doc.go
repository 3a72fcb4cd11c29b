// Package research gathers topic background for episode prompts.
//
// The engine scans the RSS and Atom feeds listed under [research] in the
// configuration, keeps items whose title or description shares a keyword with
// the topic, and condenses them into a Result. Results are cached per topic in
// the research table with the configured expiry. Any failure degrades to an
// empty Result; research never blocks episode generation.
package research
