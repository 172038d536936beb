package services

import "github.com/sinavly/exam-engine/internal/models"

// categoryFactors holds per-category difficulty and competitiveness
// weights used by the success heuristic. Both are in (0, 1]; categories
// missing from the table fall back to defaultFactors.
type categoryFactors struct {
	Difficulty      float64
	Competitiveness float64
}

var defaultFactors = categoryFactors{Difficulty: 0.8, Competitiveness: 0.8}

var factorsByCategory = map[string]categoryFactors{
	"yks-tyt":     {Difficulty: 0.85, Competitiveness: 0.9},
	"yks-ayt":     {Difficulty: 0.9, Competitiveness: 0.95},
	"kpss-gygk":   {Difficulty: 0.8, Competitiveness: 0.9},
	"ales":        {Difficulty: 0.75, Competitiveness: 0.8},
	"dgs":         {Difficulty: 0.75, Competitiveness: 0.85},
	"msu":         {Difficulty: 0.8, Competitiveness: 0.85},
	"polis-pomem": {Difficulty: 0.7, Competitiveness: 0.9},
	"ehliyet-b":   {Difficulty: 0.5, Competitiveness: 0.4},
	"src4":        {Difficulty: 0.5, Competitiveness: 0.45},
}

var weakAreasByCategory = map[string][]models.WeakArea{
	"yks-tyt": {
		{Topic: "Problemler", Category: "Matematik"},
		{Topic: "Paragraf", Category: "Türkçe"},
		{Topic: "Geometri", Category: "Matematik"},
	},
	"yks-ayt": {
		{Topic: "Türev ve İntegral", Category: "Matematik"},
		{Topic: "Elektrik ve Manyetizma", Category: "Fizik"},
		{Topic: "Organik Kimya", Category: "Kimya"},
	},
	"kpss-gygk": {
		{Topic: "Sayısal Mantık", Category: "Genel Yetenek"},
		{Topic: "Anayasa", Category: "Vatandaşlık"},
		{Topic: "Osmanlı Tarihi", Category: "Tarih"},
	},
	"ales": {
		{Topic: "Sözel Mantık", Category: "Sözel"},
		{Topic: "Sayı Problemleri", Category: "Sayısal"},
	},
	"ehliyet-b": {
		{Topic: "Trafik İşaretleri", Category: "Trafik"},
		{Topic: "İlk Yardım Temelleri", Category: "İlk Yardım"},
	},
}

var genericWeakAreas = []models.WeakArea{
	{Topic: "Genel Konular", Category: "Genel"},
}

var recommendationsByCategory = map[string][]string{
	"yks-tyt": {
		"Her gün en az 40 paragraf sorusu çözün",
		"Matematik temel konularını tekrar edin",
		"Haftada iki tam deneme sınavı çözün",
	},
	"yks-ayt": {
		"Türev ve integral konularında günlük soru çözümü yapın",
		"Deneme analizlerinde yanlış yaptığınız konuları not edin",
	},
	"kpss-gygk": {
		"Güncel bilgiler için haftalık tekrar yapın",
		"Tarih kronolojisini tablolarla çalışın",
		"Her gün süre tutarak soru çözün",
	},
	"ehliyet-b": {
		"Trafik işaretlerini görsel kartlarla tekrar edin",
		"Çıkmış sınav sorularını çözün",
	},
}

var genericRecommendations = []string{
	"Düzenli çalışma programı oluşturun",
	"Deneme sınavlarıyla ilerlemenizi ölçün",
	"Yanlış yaptığınız soruları tekrar çözün",
}

var subjectDistributionByCategory = map[string]map[string]float64{
	"yks-tyt": {
		"Türkçe":          0.3,
		"Matematik":       0.35,
		"Sosyal Bilimler": 0.15,
		"Fen Bilimleri":   0.2,
	},
	"kpss-gygk": {
		"Genel Yetenek": 0.4,
		"Genel Kültür":  0.35,
		"Vatandaşlık":   0.25,
	},
	"ehliyet-b": {
		"Trafik":       0.4,
		"İlk Yardım":   0.3,
		"Motor":        0.2,
		"Trafik Adabı": 0.1,
	},
}

// milestoneStages is the fixed naming sequence for study-plan milestones.
var milestoneStages = []struct {
	Title       string
	Description string
}{
	{Title: "Temel Konular", Description: "Temel konuların bitirilmesi ve eksiklerin kapatılması"},
	{Title: "Orta Seviye", Description: "Orta seviye soru çözümü ve konu pekiştirme"},
	{Title: "İleri Seviye", Description: "Zor sorular ve deneme sınavı yoğunluğu"},
	{Title: "Son Tekrar", Description: "Genel tekrar ve sınav provası"},
}

func lookupFactors(categoryID string) categoryFactors {
	if f, ok := factorsByCategory[categoryID]; ok {
		return f
	}
	return defaultFactors
}

func lookupWeakAreas(categoryID string) []models.WeakArea {
	if areas, ok := weakAreasByCategory[categoryID]; ok {
		return areas
	}
	return genericWeakAreas
}

func lookupRecommendations(categoryID string) []string {
	if recs, ok := recommendationsByCategory[categoryID]; ok {
		return recs
	}
	return genericRecommendations
}

// lookupSubjectDistribution returns the per-category weighting table, or a
// uniform distribution over the category's subjects when unconfigured.
func lookupSubjectDistribution(category *models.ExamCategory) map[string]float64 {
	if dist, ok := subjectDistributionByCategory[category.ID]; ok {
		return dist
	}
	if len(category.Subjects) == 0 {
		return map[string]float64{"Genel Konular": 1.0}
	}
	uniform := make(map[string]float64, len(category.Subjects))
	share := 1.0 / float64(len(category.Subjects))
	for _, subject := range category.Subjects {
		uniform[subject] = share
	}
	return uniform
}
