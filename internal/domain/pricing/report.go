package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/ecoscope/siagatani/internal/domain/report"
	apperrors "github.com/ecoscope/siagatani/pkg/errors"
	"github.com/ecoscope/siagatani/pkg/util"
)

func (s *service) PredictionReport(ctx context.Context, key string, in *SimulationInput) (report.Report, error) {
	outlook, err := s.Outlook(ctx, key)
	if err != nil {
		return report.Report{}, err
	}
	var sim *Simulation
	if in != nil && in.HarvestAmount > 0 {
		input := *in
		input.Commodity = outlook.Commodity.Key
		computed, err := s.Simulate(ctx, input)
		if err != nil {
			return report.Report{}, err
		}
		sim = &computed
	}

	content := renderPrediction(outlook, sim, s.now())
	return s.reports.Save(ctx, report.KindPricePrediction, outlook.Commodity.Key, content)
}

func (s *service) SimulationReport(ctx context.Context, in SimulationInput) (report.Report, error) {
	if in.HarvestAmount <= 0 {
		return report.Report{}, apperrors.Wrap("invalid_input", "no simulation to export", nil)
	}
	sim, err := s.Simulate(ctx, in)
	if err != nil {
		return report.Report{}, err
	}
	var commodity Commodity
	if commodity, err = s.commodity(ctx, sim.Commodity); err != nil {
		return report.Report{}, err
	}

	content := renderSimulation(commodity, sim, s.now())
	return s.reports.Save(ctx, report.KindRevenueSim, sim.Commodity, content)
}

func renderPrediction(o Outlook, sim *Simulation, at time.Time) string {
	c := o.Commodity
	doc := report.NewDocument("Laporan Prediksi Harga Komoditas").
		Section("Informasi Komoditas").
		Field("Komoditas", 15, c.Name).
		Field("Harga Saat Ini", 15, util.FormatRupiah(c.CurrentPrice)).
		Field("Tren", 15, fmt.Sprintf("%s %s", trendLabel(c.Trend), c.Change)).
		Field("Waktu Analisis", 15, util.FormatTimestampID(at)).
		Section("Prediksi Harga (2 Minggu ke Depan)")
	for _, p := range o.Upcoming {
		doc.Line("%s : %s", p.Date, util.FormatRupiah(p.Prediction))
	}

	doc.Section("Simulasi Pendapatan")
	if sim == nil {
		doc.Line("Belum ada simulasi yang dihitung")
	} else {
		doc.Field("Jumlah Panen", 15, fmt.Sprintf("%s %s", util.FormatNumberID(sim.HarvestAmount), sim.Unit)).
			Field("Estimasi Harga", 15, util.FormatRupiah(sim.EstimatedPrice)).
			Field("Total Pendapatan", 15, util.FormatRupiah(sim.TotalRevenue)).
			Field("Waktu Jual Terbaik", 15, orDash(sim.BestSellDate))
	}

	return doc.Section("Rekomendasi").
		Line("• Waktu Jual Terbaik: %s", orDash(o.BestSellDate)).
		Line("• Prediksi Tren: Harga %s 3-5%% dalam 2 minggu", trendVerb(c.Trend)).
		Line("• Sumber Referensi: Badan Pangan Nasional (Bapanas)").
		Section("Catatan").
		Line("- Prediksi berdasarkan analisis AI dan data historis").
		Line("- Harga dapat berubah sesuai kondisi pasar").
		Line("- Gunakan sebagai panduan, bukan jaminan harga").
		Finish(at)
}

func renderSimulation(c Commodity, sim Simulation, at time.Time) string {
	recommendation := "Pertimbangkan untuk menjual sekarang"
	if sim.Recommendation == RecommendHold {
		recommendation = "Tunda penjualan untuk mendapat harga lebih baik"
	}
	outlook := "Negatif"
	if c.Trend == TrendUp {
		outlook = "Positif"
	}
	harvestDate := sim.HarvestDate
	if harvestDate == "" {
		harvestDate = "Tidak ditentukan"
	}

	return report.NewDocument("Laporan Simulasi Pendapatan").
		Section("Detail Simulasi").
		Field("Komoditas", 16, c.Name).
		Field("Jumlah Panen", 16, fmt.Sprintf("%s %s", util.FormatNumberID(sim.HarvestAmount), sim.Unit)).
		Field("Tanggal Panen", 16, harvestDate).
		Field("Harga Saat Ini", 16, util.FormatRupiah(sim.CurrentPrice)).
		Field("Estimasi Harga", 16, util.FormatRupiah(sim.EstimatedPrice)).
		Section("Proyeksi Pendapatan").
		Field("Total Pendapatan Estimasi", 25, util.FormatRupiah(sim.TotalRevenue)).
		Field("Waktu Jual Terbaik", 25, orDash(sim.BestSellDate)).
		Field("Margin Keuntungan", 25, fmt.Sprintf("%.1f%%", sim.MarginPercent)).
		Section("Analisis").
		Line("• Berdasarkan tren pasar saat ini: %s", outlook).
		Line("• Perubahan harga: %s", c.Change).
		Line("• Rekomendasi: %s", recommendation).
		Section("Disclaimer").
		Line("* Estimasi berdasarkan analisis AI dan data historis").
		Line("* Hasil aktual dapat berbeda dari prediksi").
		Line("* Belum termasuk biaya operasional dan transport").
		Finish(at)
}

func trendLabel(trend string) string {
	if trend == TrendUp {
		return "Naik"
	}
	return "Turun"
}

func trendVerb(trend string) string {
	if trend == TrendUp {
		return "naik"
	}
	return "turun"
}
