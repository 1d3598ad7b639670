package extract

import (
	"strings"
	"testing"
)

// Benchmark FromHTML on editor-sized documents.
func BenchmarkFromHTML(b *testing.B) {
	small := "<p>오늘은 산책을 했다. 바람이 좋았다.</p>"
	medium := makeHTML(50, 60)
	large := makeHTML(200, 200)

	b.Run("small", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = FromHTML(small)
		}
	})
	b.Run("medium", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = FromHTML(medium)
		}
	})
	b.Run("large", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = FromHTML(large)
		}
	})
}

func makeHTML(paras int, itemsPerList int) string {
	builder := new(strings.Builder)
	for i := 0; i < paras; i++ {
		builder.WriteString("<h2>소제목</h2><p>")
		builder.WriteString(sampleText)
		builder.WriteString("</p>")
	}
	builder.WriteString("<ul>")
	for i := 0; i < itemsPerList; i++ {
		builder.WriteString("<li>")
		builder.WriteString(sampleText)
		builder.WriteString("</li>")
	}
	builder.WriteString("</ul>")
	return builder.String()
}

const sampleText = "아침에 커피를 내리고 창문을 열었다. 골목에서 아이들 목소리가 들렸다! 오늘은 뭘 쓸까?"
