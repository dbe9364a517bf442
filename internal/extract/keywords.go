// Package extract implements deterministic keyword+pattern extraction
// of order-reference codes from sub-document text.
package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Keywords is the fixed multilingual table of code-introducing labels.
// Matching is case-insensitive and accent-tolerant; entries are kept
// in their original spelling for reporting.
var Keywords = []string{
	"Bestellnummer",
	"CDE EDI No",
	"Client ordernumber",
	"Customer PO",
	"Delivery note",
	"Encomenda",
	"Encomenda cliente n.º",
	"ENCOMENDA N.º",
	"N comande client:",
	"N. PEDIDO/ENCOMENDA:",
	"N.PEDIDO",
	"N/REF.",
	"Nº Cmd/Best Nr",
	"Nº de commande",
	"Nº Pdo CLIENTE",
	"Nº Ped. Compra:",
	"Nº Pedido Cliente:",
	"Nº Pedido LM",
	"Nº Pedido:",
	"Nº. de Enc. CI.:",
	"Nostro Ordine",
	"Order Number:",
	"P.Clte",
	"Ped.Cliente",
	"PEDIDO CLIENTE",
	"Pedido Cliente",
	"Pedido del cliente Nº",
	"PEDIDO Nº",
	"PO no / date",
	"Project no:",
	"Ref",
	"Ref client:",
	"Réf. BL interne:",
	"REF:",
	"Referência",
	"REFERÊNCIA CLIENTE:",
	"Referencia:",
	"req",
	"Requisição",
	"S/PEDIDO:",
	"Su Encomenda",
	"Su nº de referencia",
	"Su Nº Pedido",
	"Su número de orden",
	"Su pedido",
	"Su Pedido :",
	"Su ref.: PEDIDO",
	"SU REFERENCIA",
	"Su Referencia:",
	"V. Requisição",
	"v/ Refª:",
	"V/ Requisição:",
	"V/Doc:",
	"V/REF",
	"V/REFª",
	"V/REQ.",
	"Vossa Encomenda:",
	"Vosso Pedido",
	"Vostro Ordine",
	"Votre comande nº",
	"Votre réf.:",
	"Votre référence de comande:",
	"Your reference",
	"Your reference:",
	"Pedido",
	"PEDIDO",
	"V/PEDIDO",
	"Expedição",
	"Expedicao",
	"Nº Expedição:",
	"Votre comande",
	"votre référence",
	"Réf commande",
	"Vx.Enc",
	"Nº pedido cliente:",
	"Ordeno.",
	"Order ref.:",
	"sua encomenda",
	"Ref.pedido cliente",
	"Referencia cliente",
	"Numéro de commande",
	"Numéro de pedido de",
	"Numéro de pedido",
	"N.º pedido",
	"Nummer",
	"Número de orden",
	"Réquisition",
	"V/ PEDIDO",
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	// stripMarks removes combining marks after NFKD decomposition,
	// giving accent-insensitive comparison forms.
	stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
)

// normalizeKeyword folds a keyword (or text) for tolerant matching:
// diacritics removed, lowercased, whitespace collapsed to single spaces.
func normalizeKeyword(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(folded)), " ")
}

type normalizedKeyword struct {
	normalized string
	original   string
}

// normalizedKeywords is the table folded once at init, ordered longest
// normalized form first so specific keywords are never shadowed by a
// shorter substring.
var normalizedKeywords = func() []normalizedKeyword {
	out := make([]normalizedKeyword, len(Keywords))
	for i, kw := range Keywords {
		out[i] = normalizedKeyword{normalized: normalizeKeyword(kw), original: kw}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].normalized) > len(out[j].normalized)
	})
	return out
}()

// keywordHit is one keyword occurrence. The position is a rune offset
// into the normalized text, used to anchor a search window in the
// original.
type keywordHit struct {
	keyword string
	pos     int
}

// findKeywords locates every keyword occurrence in the text. Longer
// keywords claim their positions first; shorter keywords at the same
// position are suppressed.
func findKeywords(text string) []keywordHit {
	normalized := normalizeKeyword(text)
	var hits []keywordHit
	seen := make(map[int]bool)

	for _, nk := range normalizedKeywords {
		start := 0
		for {
			pos := strings.Index(normalized[start:], nk.normalized)
			if pos < 0 {
				break
			}
			pos += start
			if !seen[pos] {
				hits = append(hits, keywordHit{
					keyword: nk.original,
					pos:     utf8.RuneCountInString(normalized[:pos]),
				})
				seen[pos] = true
			}
			start = pos + 1
		}
	}
	return hits
}
