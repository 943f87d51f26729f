package slope

import (
	"context"
	"fmt"

	"github.com/ecoscope/siagatani/internal/domain/report"
	"github.com/ecoscope/siagatani/pkg/util"
)

func (s *service) Report(ctx context.Context, siteID string) (report.Report, error) {
	site, err := s.Site(ctx, siteID)
	if err != nil {
		return report.Report{}, err
	}
	now := s.now()

	assessment := "RISIKO RENDAH - Kondisi relatif aman"
	switch site.Risk {
	case RiskHigh:
		assessment = "RISIKO TINGGI - Memerlukan perhatian segera"
	case RiskMedium:
		assessment = "RISIKO SEDANG - Monitoring diperlukan"
	}

	doc := report.NewDocument("Laporan Analisis Lereng").
		Section("Informasi Lokasi").
		Field("Nama Lokasi", 15, site.Name).
		Field("Koordinat", 15, coordinates(site)).
		Field("Kemiringan", 15, fmt.Sprintf("%s%%", util.FormatNumberID(site.Slope))).
		Field("Status Risiko", 15, RiskLabel(site.Risk)).
		Field("Waktu Analisis", 15, util.FormatTimestampID(now)).
		Section("Assessment Risiko").
		Line("%s", assessment).
		Section("Rekomendasi Tindakan")
	for i, suggestion := range site.Suggestions {
		doc.Line("%d. %s", i+1, suggestion)
	}
	content := doc.Section("Catatan").
		Line("- Data berdasarkan analisis drone dan citra satelit").
		Line("- Monitoring berkelanjutan diperlukan").
		Line("- Segera hubungi otoritas jika kondisi memburuk").
		Finish(now)

	return s.reports.Save(ctx, report.KindSlopeAnalysis, site.Name, content)
}
