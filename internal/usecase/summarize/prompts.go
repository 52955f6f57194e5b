package summarize

// Model instructions for the two generation calls. The inference instructions
// pin the exact JSON shape the parser expects; models still wrap it in
// markdown fences sometimes, which the parser tolerates.

const summaryInstructions = `You are an expert editor. Summarize the article transcript the user provides.
Write a tight narrative summary of at most three short paragraphs that a busy
reader can absorb in under a minute. Keep the author's key claims and
conclusions, drop filler, navigation text and advertisements. Do not add
opinions or information that is not in the transcript. Respond with the
summary text only, no preamble and no headings.`

const inferenceInstructions = `You are an expert media analyst. Analyze the article transcript the user
provides and respond with ONLY a valid JSON object, no markdown fences and no
commentary, in exactly this shape:
{
  "depth": "<surface|moderate|deep>",
  "tone": "<one or two words describing the writing tone>",
  "sentiment": "<positive|neutral|negative>",
  "tweet": "<a single tweet-length teaser for the article, under 240 characters>",
  "key_topics": ["<up to 6 short topic labels>"]
}`

// summaryPrompt combines the base summary instructions with optional
// caller-supplied guidance. The sentinel default value means no extra
// guidance.
func summaryPrompt(instructions string) string {
	if instructions == "" || instructions == DefaultInstructions {
		return summaryInstructions
	}
	return summaryInstructions + "\n\nAdditional instructions from the reader:\n" + instructions
}
