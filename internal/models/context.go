// ABOUTME: Context bundle models for prompt assembly
// ABOUTME: Sections carry a priority class used by the truncation policy
package models

// ContextSection is one titled block of prompt context.
// Priority sections survive truncation; others are appended while the
// total stays under budget.
type ContextSection struct {
	Label    string `json:"label"`
	Text     string `json:"text"`
	Priority bool   `json:"priority"`
}
