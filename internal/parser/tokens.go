package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rgehrsitz/portasim/internal/money"
	"github.com/shopspring/decimal"
)

// TokenKind classifies a fragment of pasted text
type TokenKind int

const (
	KindWord TokenKind = iota
	KindBankHeader
	KindDate
	KindProgress
	KindRemaining
	KindCurrency
	KindPercentage
	KindNumber
	KindIdentifier
	KindLabel
)

var kindNames = map[TokenKind]string{
	KindWord:       "word",
	KindBankHeader: "bank_header",
	KindDate:       "date",
	KindProgress:   "progress",
	KindRemaining:  "remaining",
	KindCurrency:   "currency",
	KindPercentage: "percentage",
	KindNumber:     "number",
	KindIdentifier: "identifier",
	KindLabel:      "label",
}

func (k TokenKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Label qualifies the next amount on the same line
type Label string

const (
	LabelBalance     Label = "saldo"
	LabelPayoff      Label = "quitacao"
	LabelInstallment Label = "parcela"
	LabelRemaining   Label = "restantes"
)

// Token is one classified fragment. Only the fields relevant to Kind are set.
type Token struct {
	Kind TokenKind
	Text string // Verbatim text
	Line int    // 1-based line number

	Amount decimal.Decimal // Currency, Number
	Integer bool           // Number written without separators

	Paid      int  // Progress
	Total     int  // Progress
	Remaining int  // Progress, Remaining
	HasRemain bool // Progress carried a "- N Restantes" suffix

	Label Label // Label
}

var (
	headerPattern = regexp.MustCompile(`^(\d{1,5})[ \x{00A0}]*[-–][ \x{00A0}]*`)

	datePattern      = regexp.MustCompile(`^(?:\d{2}/\d{2}/\d{4}|\d{1,2}/\d{4})`)
	progressPattern  = regexp.MustCompile(`(?i)^(\d{1,3})\s*/\s*(\d{1,3})(?:\s*[-–]\s*(\d{1,3})\s+restantes\b)?`)
	remainingPattern = regexp.MustCompile(`(?i)^(\d{1,3})\s+restantes\b`)
	currencyPattern  = regexp.MustCompile(`(?i)^R\$\s*(\d[\d.,]*)`)
	percentPattern   = regexp.MustCompile(`^\d+(?:[.,]\d+)?\s*%`)
	numberPattern    = regexp.MustCompile(`^\d[\d.,]*`)
	identPattern     = regexp.MustCompile(`^[\pL\d]+`)
	labelPattern     = regexp.MustCompile(`(?i)^(saldo(?:\s+devedor)?|quita[çc][ãa]o|valor\s+da\s+parcela|parcelas?|restantes)(?:[^\pL\d]|$)`)
	wordPattern      = regexp.MustCompile(`^[^\s|;\x{00A0}]+`)

	leadingNoise = " \t|;:\u00a0"
)

// Tokenize splits text into lines and classifies each line's fragments left
// to right. Blank lines and surrounding whitespace produce no tokens.
func Tokenize(text string) []Token {
	var tokens []Token
	for i, line := range strings.Split(text, "\n") {
		tokens = append(tokens, tokenizeLine(strings.TrimRight(line, "\r"), i+1)...)
	}
	return tokens
}

func tokenizeLine(line string, lineNo int) []Token {
	var tokens []Token

	rest := strings.TrimLeft(line, leadingNoise)
	if m := headerPattern.FindStringSubmatch(rest); m != nil {
		if name, n := bankName(rest[len(m[0]):]); name != "" {
			tokens = append(tokens, Token{
				Kind: KindBankHeader,
				Text: m[1] + " - " + name,
				Line: lineNo,
			})
			rest = rest[len(m[0])+n:]
		}
	}

	for {
		rest = strings.TrimLeft(rest, leadingNoise)
		if rest == "" {
			return tokens
		}
		tok, n := nextToken(rest)
		tok.Line = lineNo
		tokens = append(tokens, tok)
		rest = rest[n:]
	}
}

// bankName reads the bank name at the start of s and returns it with the
// bytes consumed. The name must start with a letter. On a delimited row it
// runs to the first tab or "|"; otherwise it ends before the first word that
// classifies as anything but a plain word.
func bankName(s string) (string, int) {
	first, _ := utf8.DecodeRuneInString(s)
	if !unicode.IsLetter(first) {
		return "", 0
	}

	if i := strings.IndexAny(s, "\t|"); i >= 0 {
		return collapseSpaces(s[:i]), i
	}

	end := 0
	for end < len(s) {
		word := strings.TrimLeft(s[end:], " \u00a0;:")
		if word == "" {
			break
		}
		tok, n := nextToken(word)
		if tok.Kind != KindWord {
			break
		}
		end = len(s) - len(word) + n
	}
	return collapseSpaces(s[:end]), end
}

// nextToken classifies the fragment at the start of s and returns how many
// bytes it consumed. Matchers run in priority order.
func nextToken(s string) (Token, int) {
	if m := datePattern.FindString(s); m != "" && boundaryAfter(s, len(m)) && !strings.HasPrefix(s[len(m):], "/") {
		return Token{Kind: KindDate, Text: m}, len(m)
	}

	if m := progressPattern.FindStringSubmatch(s); m != nil && boundaryAfter(s, len(m[0])) {
		tok := Token{Kind: KindProgress, Text: m[0], Paid: atoi(m[1]), Total: atoi(m[2])}
		if m[3] != "" {
			tok.Remaining = atoi(m[3])
			tok.HasRemain = true
		}
		return tok, len(m[0])
	}

	if m := remainingPattern.FindStringSubmatch(s); m != nil {
		return Token{Kind: KindRemaining, Text: m[0], Remaining: atoi(m[1]), HasRemain: true}, len(m[0])
	}

	if m := currencyPattern.FindStringSubmatch(s); m != nil {
		if amount, ok := money.ParseAmount(m[1]); ok {
			return Token{Kind: KindCurrency, Text: strings.TrimRight(m[0], ".,"), Amount: amount}, len(m[0])
		}
	}

	if m := percentPattern.FindString(s); m != "" {
		return Token{Kind: KindPercentage, Text: m}, len(m)
	}

	if m := numberPattern.FindString(s); m != "" && boundaryAfter(s, len(m)) {
		digits := strings.Trim(m, ".,")
		if amount, ok := money.ParseAmount(digits); ok {
			isInteger := !strings.ContainsAny(digits, ".,")
			if !(isInteger && len(digits) >= 7) {
				return Token{Kind: KindNumber, Text: digits, Amount: amount, Integer: isInteger}, len(m)
			}
		}
	}

	if m := labelPattern.FindStringSubmatch(s); m != nil {
		return Token{Kind: KindLabel, Text: m[1], Label: labelFor(m[1])}, len(m[1])
	}

	if m := identPattern.FindString(s); m != "" && isIdentifier(m) && boundaryAfter(s, len(m)) {
		return Token{Kind: KindIdentifier, Text: m}, len(m)
	}

	m := wordPattern.FindString(s)
	if m == "" {
		_, size := utf8.DecodeRuneInString(s)
		m = s[:size]
	}
	return Token{Kind: KindWord, Text: m}, len(m)
}

// isIdentifier accepts contract numbers: at least five characters with a
// digit. Pure digit strings must be long enough not to read as amounts.
func isIdentifier(s string) bool {
	if len([]rune(s)) < 5 {
		return false
	}
	hasDigit, hasLetter := false, false
	for _, r := range s {
		if r >= '0' && r <= '9' {
			hasDigit = true
		} else {
			hasLetter = true
		}
	}
	if !hasDigit {
		return false
	}
	return hasLetter || len(s) >= 7
}

// boundaryAfter reports whether s[n:] does not continue an alphanumeric run
func boundaryAfter(s string, n int) bool {
	if n >= len(s) {
		return true
	}
	c := s[n]
	return !(c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z')
}

func labelFor(word string) Label {
	w := strings.ToLower(word)
	switch {
	case strings.HasPrefix(w, "saldo"):
		return LabelBalance
	case strings.HasPrefix(w, "quita"):
		return LabelPayoff
	case strings.HasPrefix(w, "restantes"):
		return LabelRemaining
	default:
		return LabelInstallment
	}
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
