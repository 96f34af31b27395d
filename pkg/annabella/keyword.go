package annabella

// Keyword is an ID that correlates to one of the reserved words of the source
// language. Keyword zero is reserved to mean "not a keyword".
type Keyword uint8

//go:generate stringer -type=Keyword -trimprefix=Keyword
const (
	_notAKeyword Keyword = iota

	KeywordAbort
	KeywordAbs
	KeywordAbstract
	KeywordAccept
	KeywordAccess
	KeywordAliased
	KeywordAll
	KeywordAnd
	KeywordArray
	KeywordAt
	KeywordBegin
	KeywordBody
	KeywordCase
	KeywordConstant
	KeywordDeclare
	KeywordDelay
	KeywordDelta
	KeywordDigits
	KeywordDo
	KeywordElse
	KeywordElsif
	KeywordEnd
	KeywordEntry
	KeywordException
	KeywordExit
	KeywordFor
	KeywordFunction
	KeywordGeneric
	KeywordGoto
	KeywordIf
	KeywordIn
	KeywordInterface
	KeywordIs
	KeywordLimited
	KeywordLoop
	KeywordMod
	KeywordNew
	KeywordNot
	KeywordNull
	KeywordOf
	KeywordOr
	KeywordOthers
	KeywordOut
	KeywordOverriding
	KeywordPackage
	KeywordParallel
	KeywordPragma
	KeywordPrivate
	KeywordProcedure
	KeywordProtected
	KeywordRaise
	KeywordRange
	KeywordRecord
	KeywordRem
	KeywordRenames
	KeywordRequeue
	KeywordReturn
	KeywordReverse
	KeywordSelect
	KeywordSeparate
	KeywordSome
	KeywordSubtype
	KeywordSynchronized
	KeywordTagged
	KeywordTask
	KeywordTerminate
	KeywordThen
	KeywordType
	KeywordUntil
	KeywordUse
	KeywordWhen
	KeywordWhile
	KeywordWith
	KeywordXor
)

// keywordTable holds the text of every reserved word. It's used both to
// build the lookup map below and to pretty-print a Keyword in diagnostics.
var keywordTable = [...]string{
	_notAKeyword:        "<not a keyword>",
	KeywordAbort:        "abort",
	KeywordAbs:          "abs",
	KeywordAbstract:     "abstract",
	KeywordAccept:       "accept",
	KeywordAccess:       "access",
	KeywordAliased:      "aliased",
	KeywordAll:          "all",
	KeywordAnd:          "and",
	KeywordArray:        "array",
	KeywordAt:           "at",
	KeywordBegin:        "begin",
	KeywordBody:         "body",
	KeywordCase:         "case",
	KeywordConstant:     "constant",
	KeywordDeclare:      "declare",
	KeywordDelay:        "delay",
	KeywordDelta:        "delta",
	KeywordDigits:       "digits",
	KeywordDo:           "do",
	KeywordElse:         "else",
	KeywordElsif:        "elsif",
	KeywordEnd:          "end",
	KeywordEntry:        "entry",
	KeywordException:    "exception",
	KeywordExit:         "exit",
	KeywordFor:          "for",
	KeywordFunction:     "function",
	KeywordGeneric:      "generic",
	KeywordGoto:         "goto",
	KeywordIf:           "if",
	KeywordIn:           "in",
	KeywordInterface:    "interface",
	KeywordIs:           "is",
	KeywordLimited:      "limited",
	KeywordLoop:         "loop",
	KeywordMod:          "mod",
	KeywordNew:          "new",
	KeywordNot:          "not",
	KeywordNull:         "null",
	KeywordOf:           "of",
	KeywordOr:           "or",
	KeywordOthers:       "others",
	KeywordOut:          "out",
	KeywordOverriding:   "overriding",
	KeywordPackage:      "package",
	KeywordParallel:     "parallel",
	KeywordPragma:       "pragma",
	KeywordPrivate:      "private",
	KeywordProcedure:    "procedure",
	KeywordProtected:    "protected",
	KeywordRaise:        "raise",
	KeywordRange:        "range",
	KeywordRecord:       "record",
	KeywordRem:          "rem",
	KeywordRenames:      "renames",
	KeywordRequeue:      "requeue",
	KeywordReturn:       "return",
	KeywordReverse:      "reverse",
	KeywordSelect:       "select",
	KeywordSeparate:     "separate",
	KeywordSome:         "some",
	KeywordSubtype:      "subtype",
	KeywordSynchronized: "synchronized",
	KeywordTagged:       "tagged",
	KeywordTask:         "task",
	KeywordTerminate:    "terminate",
	KeywordThen:         "then",
	KeywordType:         "type",
	KeywordUntil:        "until",
	KeywordUse:          "use",
	KeywordWhen:         "when",
	KeywordWhile:        "while",
	KeywordWith:         "with",
	KeywordXor:          "xor",
}

// keywordLookup maps reserved-word text to its Keyword. Built once at
// package init from keywordTable; a later re-implementation could trade
// this for a perfect-hash switch without changing any caller.
var keywordLookup = func() map[string]Keyword {
	m := make(map[string]Keyword, len(keywordTable)-1)
	for k, text := range keywordTable {
		if Keyword(k) == _notAKeyword {
			continue
		}
		m[text] = Keyword(k)
	}
	return m
}()

// lookupKeyword returns the Keyword matching text and true, or false if text
// is not a reserved word.
func lookupKeyword(text string) (Keyword, bool) {
	k, ok := keywordLookup[text]
	return k, ok
}

// String pretty-prints a keyword as it appears in the source language.
func (k Keyword) String() string {
	if int(k) >= len(keywordTable) {
		return "<invalid keyword>"
	}
	return keywordTable[k]
}
