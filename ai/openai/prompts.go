package openai

import (
	"fmt"
	"strings"
)

const qaResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "answer": {
      "type": "string"
    },
    "confidence": {
      "type": "number",
      "minimum": 0,
      "maximum": 1
    }
  },
  "required": ["answer", "confidence"],
  "additionalProperties": false
}`

const qaPromptTemplate = `You answer questions about regulatory summaries of AI-enabled medical devices.
You are given a question and a passage from a device summary. Answer the question using ONLY the passage.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- The answer must be a short span taken from the passage, not a paraphrase or a summary.
- Confidence is a number from 0 (no support in the passage) to 1 (the passage states it outright).
- If the passage does not answer the question, return {"answer": "", "confidence": 0}.
- Never invent algorithm or technique names that do not appear in the passage.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Question: "What are the algorithms used?"
Passage: "The device applies a convolutional neural network trained on retinal images to detect diabetic retinopathy."
Output:
{"answer": "convolutional neural network", "confidence": 0.92}

Example (unanswerable):
Question: "What is the input format to the device?"
Passage: "The predicate device was cleared in 2016 under the same product code."
Output:
{"answer": "", "confidence": 0}`

const keywordFilterSystemPrompt = `You review keywords extracted from regulatory summaries of AI-enabled medical devices.
The user gives you a list of keywords. Select the ones that name a concrete algorithm, model architecture,
machine learning technique, or data modality. Discard filler words, regulatory boilerplate, and generic
phrases such as "machine learning" or "artificial intelligence" on their own.

Output ONLY valid JSON of the form {"keywords": ["...", "..."]}. Do not include any preamble, explanation,
greeting, or acknowledgment. Keep the keywords in their original order and spelling. If none of the
keywords are relevant, return {"keywords": []}.`

// buildQASystemPrompt creates the QA system prompt with the response schema embedded.
func buildQASystemPrompt() string {
	return fmt.Sprintf(qaPromptTemplate, qaResponseSchema)
}

// buildQAUserPrompt combines a question with the passage it should be answered from.
func buildQAUserPrompt(question, passage string) string {
	return fmt.Sprintf("Question: %q\n\nPassage:\n%s", question, passage)
}

// buildKeywordFilterUserPrompt lists the candidate keywords, one per line.
func buildKeywordFilterUserPrompt(keywords []string) string {
	var b strings.Builder
	b.WriteString("Following are some keywords extracted from a document. ")
	b.WriteString("Which of these are the most relevant to the context of AI-enabled medical devices?\n\n")
	for _, kw := range keywords {
		b.WriteString("- ")
		b.WriteString(kw)
		b.WriteString("\n")
	}
	return b.String()
}
