package service

import (
	"strconv"
	"strings"

	"github.com/snimarbadr-source/health-interviews/internal/core/domain"
)

// DefaultSummaryMention is the role mention that closes the exported summary.
const DefaultSummaryMention = "<@&827121686499295252>"

// BuildSummary renders the fixed clipboard template for a candidate. Labels,
// order and trailing spaces are part of the format consumers paste into.
func BuildSummary(c domain.Candidate, schema domain.Schema, fields []domain.CustomField, mention string) string {
	var b strings.Builder
	b.WriteString("الاسم : " + c.Name + " \n")
	b.WriteString("الرقم الوطني : " + c.NationalID + " \n")
	b.WriteString("العمر : " + c.Age + " \n")
	b.WriteString("جودة المايك : " + c.MicQuality + "\n")
	b.WriteString("عدد ساعات التواجد : " + c.Hours + "\n")
	b.WriteString("جميع الاجوبة : المجموع: " + FormatScore(domain.ComputeTotal(c, schema)) + "\n")
	b.WriteString("المميزات : " + c.Strengths + "\n")
	b.WriteString("الملاحظات : " + c.Notes + "\n")
	b.WriteString("مسعف سابق: " + c.IsFormerParamedic + " \n")
	b.WriteString("شهادة : " + c.Certificate + "   \n")
	b.WriteString("المقابل: " + c.Interviewer)
	block := customBlock(c, fields)
	if mention != "" {
		b.WriteString("\n" + mention)
	}
	b.WriteString(block)
	return b.String()
}

func customBlock(c domain.Candidate, fields []domain.CustomField) string {
	var lines []string
	for _, f := range fields {
		v := strings.TrimSpace(c.Custom[f.Key])
		if v == "" {
			continue
		}
		lines = append(lines, f.Label+" : "+c.Custom[f.Key])
	}
	if len(lines) == 0 {
		return ""
	}
	return "\n" + strings.Join(lines, "\n")
}

// FormatScore prints a total the shortest way, without trailing zeros.
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
