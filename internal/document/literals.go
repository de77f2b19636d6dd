package document

// literal is a paragraph that is always emitted (or dropped) the same way.
type literal struct {
	source string
	html   string
	label  string
	text   string
	drop   bool
}

var literals = []literal{
	{
		source: "# GIỚI BỔN TỲ KHƯU",
		html:   `<h1 class="title">{}</h1>`,
		label:  "title",
		text:   "GIỚI BỔN TỲ KHƯU",
	},
	{
		source: "**PĀTIMOKKHA BHIKKHU**",
		html:   `<h2 class="subtitle">{}</h2>`,
		label:  "subtitle",
		text:   "PĀTIMOKKHA BHIKKHU",
	},
	{
		source: "**PHẬT GIÁO NGUYÊN THUỶ THERAVĀDA**",
		drop:   true,
	},
}

func findLiteral(para string) (literal, bool) {
	for _, lit := range literals {
		if para == lit.source {
			return lit, true
		}
	}
	return literal{}, false
}

// fixedSplit replaces a rule body that contains identifier with fixed parts.
type fixedSplit struct {
	identifier string
	parts      []string
}

// The rain-cloth rule reads as four clauses that the sentence splitter cannot
// separate, so its segmentation is fixed.
var fixedSplits = []fixedSplit{
	{
		identifier: "(Biết rằng): 'Mùa nóng còn lại là một tháng' vị tỳ khưu nên tìm kiếm y choàng tắm mưa.",
		parts: []string{
			"(Biết rằng): 'Mùa nóng còn lại là một tháng' vị tỳ khưu nên tìm kiếm y choàng tắm mưa.",
			"(Biết rằng): 'Mùa nóng còn lại là nửa tháng' vị làm xong thì nên mặc.",
			"Nếu (biết rằng): 'Mùa nóng còn lại là hơn một tháng' rồi tìm kiếm y choàng tắm mưa,",
			"(nếu biết rằng): 'Mùa nóng còn lại là hơn nửa tháng' sau khi làm xong rồi mặc vào thì (y ấy) nên được xả bỏ và (vị ấy) phạm tội pācittiya.",
		},
	},
}

// chantMarkers identify lines recited as a whole and never split.
var chantMarkers = []string{
	"SĀDHU!",
	"NAMO TASSA BHAGAVATO ARAHATO SAMMĀSAMBUDDHASSA",
}

// noQuoteSplitPrefixes lists label prefixes whose sentences keep their quotes.
var noQuoteSplitPrefixes = []string{"sk"}
