package document

import (
	"bytes"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/text/unicode/norm"
)

const sampleBook = `---
title: Giới bổn
---

# GIỚI BỔN TỲ KHƯU

**PĀTIMOKKHA BHIKKHU**

**PHẬT GIÁO NGUYÊN THUỶ THERAVĀDA**

\*\*\*

# PHẦN MỞ ĐẦU

Namo tassa bhagavato arahato sammāsambuddhassa. Namo tassa.

## TỤNG PHẦN MỞ ĐẦU

Bạch chư Tăng, xin lắng nghe. Vị ấy nói: 'Tôi trong sạch' rồi im lặng.
Dòng thứ hai.[^1]

| *Ghi chú* về nghi thức |

# THUYẾT GIỚI ƯNG ĐỐI TRỊ

Đây là phần mở đầu.

## PHẨM 3

24\. (Biết rằng): 'Mùa nóng còn lại là một tháng' vị tỳ khưu nên tìm kiếm y choàng tắm mưa. (Biết rằng): 'Mùa nóng còn lại là nửa tháng' vị làm xong thì nên mặc.

25\. Vị nào nói 'xin chào' thì phạm.

***

# THUYẾT GIỚI ƯNG HỌC PHÁP

1\. 'Tôi sẽ mặc' là điều nên học. Câu hai.
`

type want struct {
	label string
	html  string
	text  string
}

func TestParseSampleBook(t *testing.T) {
	got := NewParser(Options{}, nil).Parse(sampleBook)

	expected := []want{
		{"title", `<h1 class="title">{}</h1>`, "GIỚI BỔN TỲ KHƯU"},
		{"subtitle", `<h2 class="subtitle">{}</h2>`, "PĀTIMOKKHA BHIKKHU"},
		{"nidana-opening", "<h1>{}</h1>", "Phần Mở Đầu"},
		{"nidana-opening", "<p>{}</p>", "Namo tassa bhagavato arahato sammāsambuddhassa. Namo tassa."},
		{"nidana", "<h2>{}</h2>", "Tụng Phần Mở Đầu"},
		{"nidana", "<p>{} ", "Bạch chư Tăng, xin lắng nghe."},
		{"nidana", "{} ", "Vị ấy nói:"},
		{"nidana", "{} ", "'Tôi trong sạch'"},
		{"nidana", "{}<br>", "rồi im lặng."},
		{"nidana", "{}</p>", "Dòng thứ hai."},
		{"note-10", `<p class="note">{}</p>`, "Ghi chú về nghi thức"},
		{"pc-opening", "<h1>{}</h1>", "Thuyết Giới Ưng Đối Trị"},
		{"pc-opening", "<p>{}</p>", "Đây là phần mở đầu."},
		{"pc-chapter", "<h2>{}</h2>", "Phẩm 3"},
		{"Pc 24", "<p>{}<br>", fixedSplits[0].parts[0]},
		{"Pc 24", "{}<br>", fixedSplits[0].parts[1]},
		{"Pc 24", "{}<br>", fixedSplits[0].parts[2]},
		{"Pc 24", "{}</p>", fixedSplits[0].parts[3]},
		{"Pc 25", "<p>{} ", "Vị nào nói"},
		{"Pc 25", "{} ", "'xin chào'"},
		{"Pc 25", "{}</p>", "thì phạm."},
		{"sk-opening", "<h1>{}</h1>", "Thuyết Giới Ưng Học Pháp"},
		{"Sk 1", "<p>{} ", "'Tôi sẽ mặc' là điều nên học."},
		{"Sk 1", "{}</p>", "Câu hai."},
	}

	if len(got) != len(expected) {
		for _, seg := range got {
			t.Logf("%d %q %q %q", seg.UID, seg.Label, seg.HTML, seg.Text)
		}
		t.Fatalf("expected %d segments, got %d", len(expected), len(got))
	}
	for i, w := range expected {
		seg := got[i]
		if seg.UID != i+1 {
			t.Fatalf("segment %d: uid = %d", i, seg.UID)
		}
		if seg.Label != w.label || seg.HTML != w.html || seg.Text != w.text {
			t.Fatalf("segment %d: got (%q, %q, %q), want (%q, %q, %q)",
				seg.UID, seg.Label, seg.HTML, seg.Text, w.label, w.html, w.text)
		}
		if seg.Audio != AudioUnresolved {
			t.Fatalf("segment %d: audio = %q", seg.UID, seg.Audio)
		}
		if strings.Count(seg.HTML, Placeholder) != 1 {
			t.Fatalf("segment %d: template %q must hold one placeholder", seg.UID, seg.HTML)
		}
	}
}

func TestParseIsIdempotent(t *testing.T) {
	parser := NewParser(Options{}, nil)
	first := parser.Parse(sampleBook)
	second := parser.Parse(sampleBook)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected identical segments on re-parse")
	}
}

func TestParseNormalizesLineEndingsAndUnicode(t *testing.T) {
	decomposed := norm.NFD.String("# THUYẾT GIỚI TRIỆT KHAI\r\n\r\n1\\. Vị nào.\r\n")
	got := NewParser(Options{}, nil).Parse(decomposed)
	if len(got) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(got))
	}
	if got[0].Label != "pj-opening" {
		t.Fatalf("expected NFC heading to map to pj, got %q", got[0].Label)
	}
	if got[1].Label != "Pj 1" || got[1].HTML != "<p>{}</p>" {
		t.Fatalf("unexpected rule segment %+v", got[1])
	}
}

func TestParseRuleNames(t *testing.T) {
	doc := "# THUYẾT GIỚI TRIỆT KHAI\n\n1\\. Vị tỳ khưu nào.\n\n2. Vị nào khác."
	names := RuleNames{"Pj 1": "Pj 1. Methunadhamma"}
	got := NewParser(Options{RuleNames: names}, nil).Parse(doc)

	labels := make([]string, 0, len(got))
	for _, seg := range got {
		labels = append(labels, seg.Label)
	}
	wantLabels := []string{"pj-opening", "Pj 1-name", "Pj 1", "Pj 2"}
	if !reflect.DeepEqual(labels, wantLabels) {
		t.Fatalf("labels = %v, want %v", labels, wantLabels)
	}
	if got[1].HTML != `<p class="rule-name">{}</p>` || got[1].Text != "Pj 1. Methunadhamma" {
		t.Fatalf("unexpected name segment %+v", got[1])
	}
}

func TestParseDropsDecorativeParagraphs(t *testing.T) {
	doc := "Một câu.\n\n* * *\n\n\\*\\*\\*\n\n— … —\n\nHai câu."
	got := NewParser(Options{}, nil).Parse(doc)
	if len(got) != 2 {
		t.Fatalf("expected 2 segments, got %d: %+v", len(got), got)
	}
	if got[0].Label != "other-opening" {
		t.Fatalf("expected content before any heading to be other-opening, got %q", got[0].Label)
	}
}

func TestParseTitleCasesUppercaseUnits(t *testing.T) {
	doc := "# THUYẾT GIỚI BẤT ĐỊNH\n\nBẠCH CHƯ ĐẠI ĐỨC. Câu thường."
	got := NewParser(Options{}, nil).Parse(doc)
	if len(got) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(got))
	}
	if got[1].Text != "Bạch Chư Đại Đức." {
		t.Fatalf("expected title case, got %q", got[1].Text)
	}
	if got[1].Speech != "BẠCH CHƯ ĐẠI ĐỨC." || got[1].SpeechText() != "BẠCH CHƯ ĐẠI ĐỨC." {
		t.Fatalf("expected original casing kept for speech, got %q", got[1].Speech)
	}
	if got[2].SpeechText() != got[2].Text {
		t.Fatalf("expected mixed case speech to match text, got %q", got[2].Speech)
	}
	if got[2].Text != "Câu thường." {
		t.Fatalf("expected mixed case untouched, got %q", got[2].Text)
	}
	if !strings.Contains(got[2].Hint, `<span class="hint-tail">âu</span>`) {
		t.Fatalf("expected hint markup, got %q", got[2].Hint)
	}
}

func TestParseSekhiyaKeepsQuotesButSplitsSentences(t *testing.T) {
	doc := "# THUYẾT GIỚI ƯNG HỌC PHÁP\n\n'Tôi sẽ đắp y tròn đều' là điều nên học. Câu hai. Câu 'ba'."
	got := NewParser(Options{}, nil).Parse(doc)
	texts := make([]string, 0, len(got))
	for _, seg := range got[1:] {
		texts = append(texts, seg.Text)
	}
	want := []string{"'Tôi sẽ đắp y tròn đều' là điều nên học.", "Câu hai.", "Câu 'ba'."}
	if !reflect.DeepEqual(texts, want) {
		t.Fatalf("texts = %#v, want %#v", texts, want)
	}
}

func TestParseFixedRuleSplitToleratesFormatting(t *testing.T) {
	const (
		first  = "(Biết rằng): 'Mùa nóng còn lại là một tháng' vị tỳ khưu nên tìm kiếm y choàng tắm mưa."
		second = "(Biết rằng): 'Mùa nóng còn lại là nửa tháng' vị làm xong thì nên mặc."
	)
	tests := []struct {
		name string
		body string
	}{
		{"canonical", "24\\. " + first + " " + second},
		{"double spaces", "24.  (Biết  rằng):  'Mùa nóng còn lại là một tháng'  vị tỳ khưu nên tìm kiếm y choàng tắm mưa.  " + second},
		{"line break inside clause", "24\\. (Biết rằng): 'Mùa nóng còn lại\nlà một tháng' vị tỳ khưu nên tìm kiếm y choàng tắm mưa.\n" + second},
		{"escaped punctuation", "24\\. (Biết rằng): \\'Mùa nóng còn lại là một tháng\\' vị tỳ khưu nên tìm kiếm y choàng tắm mưa\\. " + second},
		{"trailing footnote", "24\\. " + first + " " + second + "[^3]"},
	}
	wantHTML := []string{"<p>{}<br>", "{}<br>", "{}<br>", "{}</p>"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := "# THUYẾT GIỚI ƯNG ĐỐI TRỊ\n\n" + tt.body + "\n"
			got := NewParser(Options{}, nil).Parse(doc)
			if len(got) != 5 {
				for _, seg := range got {
					t.Logf("%d %q %q %q", seg.UID, seg.Label, seg.HTML, seg.Text)
				}
				t.Fatalf("expected heading plus 4 fixed parts, got %d segments", len(got))
			}
			for i, seg := range got[1:] {
				if seg.Label != "Pc 24" || seg.HTML != wantHTML[i] || seg.Text != fixedSplits[0].parts[i] {
					t.Fatalf("part %d: got (%q, %q, %q)", i, seg.Label, seg.HTML, seg.Text)
				}
			}
		})
	}
}

func TestParseChantLineNeverSplits(t *testing.T) {
	doc := "# PHẦN KẾT THÚC\n\nSādhu! Sādhu! Sādhu! 'Lành thay'."
	got := NewParser(Options{}, nil).Parse(doc)
	if len(got) != 2 || got[1].Text != "Sādhu! Sādhu! Sādhu! 'Lành thay'." || got[1].Label != "end" {
		t.Fatalf("unexpected chant segments %+v", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		para string
		kind Kind
	}{
		{"# GIỚI BỔN TỲ KHƯU", KindLiteral},
		{"| ghi chú", KindNote},
		{"### Tiêu đề", KindHeading},
		{"12\\. Nội dung", KindRule},
		{"12. Nội dung", KindRule},
		{"12.Nội dung", KindPlain},
		{"Nội dung", KindPlain},
	}
	for _, tt := range tests {
		if got := Classify(tt.para); got.Kind != tt.kind {
			t.Fatalf("Classify(%q) = %s, want %s", tt.para, got.Kind, tt.kind)
		}
	}
	if b := Classify("### Tiêu đề"); b.Level != 3 || b.Body != "Tiêu đề" {
		t.Fatalf("unexpected heading block %+v", b)
	}
}

func TestWrapLines(t *testing.T) {
	got := wrapLines([][]string{{"a", "b"}, {"c"}, {"d", "e"}})
	want := [][]string{{"<p>{} ", "{}<br>"}, {"{}<br>"}, {"{} ", "{}</p>"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wrapLines = %v, want %v", got, want)
	}
	if single := wrapLines([][]string{{"x"}}); single[0][0] != "<p>{}</p>" {
		t.Fatalf("unexpected single wrap %q", single[0][0])
	}
}

func TestParseRuleNamesDocument(t *testing.T) {
	doc := strings.Join([]string{
		"# Pātimokkha",
		"#### Pārājika 1. Methunadhamma",
		"#### Sekhiya 2.",
		"#### Adhikaraṇasamatha 1",
		"#### Nissaggiya Pācittiya 10. Cīvara",
		"#### Unknown 3. Name",
		"### Pācittiya 4. Wrong level",
	}, "\n")
	names, err := ParseRuleNames(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseRuleNames returned error: %v", err)
	}
	want := RuleNames{
		"Pj 1":  "Pj 1. Methunadhamma",
		"Sk 2":  "Sk 2",
		"As 1":  "As 1",
		"Np 10": "Np 10. Cīvara",
	}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
}

func TestSegmentRender(t *testing.T) {
	seg := Segment{HTML: "<p>{}</p>", Text: "xin chào"}
	if got := seg.Render(); got != "<p>xin chào</p>" {
		t.Fatalf("Render() = %q", got)
	}
	counts := LabelCounts([]Segment{{Label: "a"}, {Label: "a"}, {Label: "b"}})
	if counts["a"] != 2 || counts["b"] != 1 {
		t.Fatalf("unexpected counts %v", counts)
	}
}

func TestParseLogsClassificationSummary(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	NewParser(Options{}, logger).Parse(sampleBook)

	out := buf.String()
	if strings.Count(out, `"msg":"paragraphs classified"`) != 1 {
		t.Fatalf("expected one classification record, got %s", out)
	}
	if strings.Contains(out, "document parsed") {
		t.Fatalf("parser must not emit the stage completion message: %s", out)
	}
	if !strings.Contains(out, `"rules":3`) {
		t.Fatalf("expected rule count in record, got %s", out)
	}
}
