// Package prompt provides simple interactive prompts.
//
// Prompts render to stderr so stdout stays free for data and the
// relocation target.
//
// Available prompts:
//   - [Confirm]: Yes/No confirmation prompt
//   - [FuzzySelect]: Pick one entry from a list by typing a fuzzy filter
//
// [Selector] and [Confirmer] wrap them for callers that take interfaces and
// fall back to non-interactive answers when there is no terminal.
package prompt
