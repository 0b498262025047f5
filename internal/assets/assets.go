// Package assets embeds the question bank used when no other source is configured.
package assets

import _ "embed"

// DefaultBankID names the embedded bank.
const DefaultBankID = "default"

//go:embed questions.json
var DefaultQuestions []byte
