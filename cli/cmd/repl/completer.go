package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "params", "texts", "sketch", "clear", "quit"}

// parameterMembers are the members selectable on a parameter variable.
var parameterMembers = []string{"value", "expr", "unit", "comment", "inchfrac"}

// systemMembers are the members selectable on the system variable "_".
var systemMembers = []string{
	"component", "compdesc", "partnum", "sketch",
	"file", "version", "date", "configuration", "newline",
}

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes: token braces, the member-access dot, slice brackets, the format
// separator, and whitespace.
func isWordBoundary(r rune) bool {
	switch r {
	case '{', '}', '.', '[', ']', ':', ' ', '\t':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input. Returns an empty word when the cursor sits on a
// boundary (right after a brace or dot, start of line, etc.).
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Walk backward from cursor to find word start.
	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	// Walk forward from cursor to find word end.
	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	word = input[start:end]

	return word, start, end
}

// tokenPosition describes where the cursor sits within a substitution token.
type tokenPosition int

const (
	posOutside tokenPosition = iota // not inside an open token
	posVar                          // completing the variable name
	posMember                       // completing a member name
	posOpaque                       // inside a slice or format, no completion
)

// tokenContext locates the open substitution token containing the cursor.
// It returns the cursor's position class and, for member positions, the
// variable name the member belongs to. Text before "{" and after "}" never
// completes; neither do slice bodies or format specifications.
func tokenContext(input string, cursor int) (tokenPosition, string) {
	if cursor > len(input) {
		cursor = len(input)
	}

	open := strings.LastIndexByte(input[:cursor], '{')
	if open == -1 || strings.ContainsRune(input[open:cursor], '}') {
		return posOutside, ""
	}

	inner := input[open+1 : cursor]
	if strings.ContainsAny(inner, "[:") {
		return posOpaque, ""
	}

	name, _, member := strings.Cut(inner, ".")
	if member {
		return posMember, name
	}

	return posVar, ""
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor. It returns the matches (ranked best-first), the candidate list, and
// the word boundaries. Inside a token, an empty word shows every candidate so
// the user can browse; outside a token nothing completes.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, ws, we := wordBounds(input, cursor)
	wordStart, wordEnd = ws, we

	if m.mode == modeCtrl {
		if word == "" {
			return nil, nil, wordStart, wordEnd
		}

		candidates = ctrlCommands
	} else {
		pos, varName := tokenContext(input, cursor)

		switch pos {
		case posVar:
			candidates = m.varCandidates()

		case posMember:
			candidates = memberCandidates(varName)

		default:
			return nil, nil, wordStart, wordEnd
		}

		if word == "" {
			if len(candidates) == 0 {
				return nil, nil, wordStart, wordEnd
			}

			// Return all candidates as unfiltered matches.
			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, candidates, wordStart, wordEnd
		}
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	matches = fuzzy.Find(word, candidates)

	return matches, candidates, wordStart, wordEnd
}

// varCandidates returns every variable name a token may reference: the
// snapshot's parameters plus the system variable.
func (m model) varCandidates() []string {
	names := m.snap.ParameterNames()

	return append(names, "_")
}

// memberCandidates returns the member names selectable on varName.
func memberCandidates(varName string) []string {
	if varName == "_" {
		return systemMembers
	}

	return parameterMembers
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		selected := tabActive && i == suggIdx
		rendered := renderCandidate(match, selected)
		candidateWidth := lipgloss.Width(rendered)

		entryWidth := candidateWidth
		if i > 0 {
			entryWidth += sepWidth
		}

		// Check if adding this candidate would exceed width.
		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth

		// If this is the last candidate, no need to reserve ellipsis space.
		if i == len(matches)-1 {
			break
		}
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		ch := string(r)
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(ch))
		} else {
			b.WriteString(baseStyle.Render(ch))
		}
	}

	return b.String()
}
