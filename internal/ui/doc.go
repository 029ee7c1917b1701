// Package ui renders pixelbar's non-animated CLI output: the routine
// listing and the end-of-run summary, styled with Lip Gloss.
//
// Colors are ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - Clean endings
//	ColorError     (red)    - Failed tasks
//	ColorWarning   (yellow) - Time limit reached
//	ColorInfo      (cyan)   - Routine names
//	ColorMuted     (gray)   - Secondary text, timing info
//
// Use DisableColors for monochrome output.
package ui
