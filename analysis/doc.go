// Package analysis provides pipeline orchestration for device audits.
//
// The Pipeline type manages the analysis workflow for each submission:
//   - Retrieving and extracting the summary document
//   - Applying the questionnaire to the document passages
//   - Validating technique keywords and gathering web evidence
//   - Searching and classifying attack literature
//
// Devices in a batch are processed concurrently using a worker pool, with a
// checkpoint written after each completed device so interrupted runs resume.
// Stage failures degrade the report status instead of failing the device.
package analysis
