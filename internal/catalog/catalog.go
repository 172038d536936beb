// Package catalog holds the static exam category registry. Category data
// changes only via redeployment; the package exposes no mutation API.
package catalog

import (
	"context"
	"sort"
	"time"

	"github.com/sinavly/exam-engine/internal/models"
	"github.com/sinavly/exam-engine/internal/repositories"
)

// Catalog is an immutable, in-code implementation of
// repositories.CategoryRepository.
type Catalog struct {
	byID    map[string]*models.ExamCategory
	ordered []*models.ExamCategory
}

// New builds the default registry of Turkish standardized exams.
func New() *Catalog {
	return NewWithCategories(defaultCategories())
}

// NewWithCategories builds a registry from explicit category definitions.
// Used by tests that need a controlled catalog.
func NewWithCategories(categories []models.ExamCategory) *Catalog {
	c := &Catalog{byID: make(map[string]*models.ExamCategory, len(categories))}
	for i := range categories {
		cat := categories[i]
		c.byID[cat.ID] = &cat
		c.ordered = append(c.ordered, &cat)
	}
	sort.SliceStable(c.ordered, func(i, j int) bool {
		if c.ordered[i].Priority != c.ordered[j].Priority {
			return c.ordered[i].Priority < c.ordered[j].Priority
		}
		return c.ordered[i].ID < c.ordered[j].ID
	})
	return c
}

func (c *Catalog) GetByID(ctx context.Context, id string) (*models.ExamCategory, error) {
	cat, ok := c.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *cat
	return &copied, nil
}

func (c *Catalog) List(ctx context.Context) ([]*models.ExamCategory, error) {
	categories := make([]*models.ExamCategory, 0, len(c.ordered))
	for _, cat := range c.ordered {
		copied := *cat
		categories = append(categories, &copied)
	}
	return categories, nil
}

func examDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 10, 0, 0, 0, time.FixedZone("TRT", 3*60*60))
}

func defaultCategories() []models.ExamCategory {
	return []models.ExamCategory{
		{
			ID:              "yks-tyt",
			Name:            "YKS - Temel Yeterlilik Testi (TYT)",
			Type:            models.ExamYKS,
			DurationSeconds: 165 * 60,
			TotalQuestions:  120,
			PassingScore:    150,
			Subjects:        []string{"Türkçe", "Sosyal Bilimler", "Temel Matematik", "Fen Bilimleri"},
			Sections: []models.ExamSection{
				{Name: "Türkçe", QuestionCount: 40},
				{Name: "Sosyal Bilimler", QuestionCount: 20},
				{Name: "Temel Matematik", QuestionCount: 40},
				{Name: "Fen Bilimleri", QuestionCount: 20},
			},
			ScoringSystem:      models.ScoringNetCalculation,
			NegativeScoring:    true,
			WrongAnswerPenalty: 0.25,
			OfficialExamDates:  []time.Time{examDate(2026, time.June, 20)},
			Priority:           1,
		},
		{
			ID:              "yks-ayt",
			Name:            "YKS - Alan Yeterlilik Testi (AYT)",
			Type:            models.ExamYKS,
			DurationSeconds: 180 * 60,
			TotalQuestions:  160,
			PassingScore:    180,
			Subjects: []string{
				"Matematik", "Fizik", "Kimya", "Biyoloji",
				"Edebiyat", "Tarih", "Coğrafya",
			},
			ScoringSystem:      models.ScoringNetCalculation,
			NegativeScoring:    true,
			WrongAnswerPenalty: 0.25,
			OfficialExamDates:  []time.Time{examDate(2026, time.June, 21)},
			Priority:           2,
		},
		{
			ID:              "kpss-gygk",
			Name:            "KPSS - Genel Yetenek / Genel Kültür",
			Type:            models.ExamKPSS,
			DurationSeconds: 130 * 60,
			TotalQuestions:  120,
			PassingScore:    60,
			Subjects:        []string{"Türkçe", "Matematik", "Tarih", "Coğrafya", "Vatandaşlık"},
			Sections: []models.ExamSection{
				{Name: "Türkçe", QuestionCount: 30},
				{Name: "Matematik", QuestionCount: 30},
				{Name: "Tarih", QuestionCount: 27},
				{Name: "Coğrafya", QuestionCount: 18},
				{Name: "Vatandaşlık", QuestionCount: 15},
			},
			ScoringSystem:      models.ScoringNetCalculation,
			NegativeScoring:    true,
			WrongAnswerPenalty: 0.25,
			OfficialExamDates:  []time.Time{examDate(2026, time.July, 12)},
			Priority:           3,
		},
		{
			ID:              "ales",
			Name:            "ALES - Akademik Personel ve Lisansüstü Eğitimi Giriş Sınavı",
			Type:            models.ExamALES,
			DurationSeconds: 150 * 60,
			TotalQuestions:  100,
			PassingScore:    70,
			Subjects:        []string{"Sayısal", "Sözel"},
			Sections: []models.ExamSection{
				{Name: "Sayısal", QuestionCount: 50},
				{Name: "Sözel", QuestionCount: 50},
			},
			ScoringSystem:      models.ScoringStandard,
			NegativeScoring:    true,
			WrongAnswerPenalty: 0.25,
			OfficialExamDates: []time.Time{
				examDate(2026, time.May, 10),
				examDate(2026, time.November, 15),
			},
			Priority: 4,
		},
		{
			ID:              "dgs",
			Name:            "DGS - Dikey Geçiş Sınavı",
			Type:            models.ExamDGS,
			DurationSeconds: 150 * 60,
			TotalQuestions:  120,
			PassingScore:    140,
			Subjects:        []string{"Sayısal", "Sözel"},
			Sections: []models.ExamSection{
				{Name: "Sayısal", QuestionCount: 60},
				{Name: "Sözel", QuestionCount: 60},
			},
			ScoringSystem:      models.ScoringStandard,
			NegativeScoring:    true,
			WrongAnswerPenalty: 0.25,
			OfficialExamDates:  []time.Time{examDate(2026, time.July, 5)},
			Priority:           5,
		},
		{
			ID:                 "msu",
			Name:               "MSÜ - Milli Savunma Üniversitesi Askeri Öğrenci Aday Belirleme Sınavı",
			Type:               models.ExamMSU,
			DurationSeconds:    135 * 60,
			TotalQuestions:     120,
			PassingScore:       160,
			Subjects:           []string{"Türkçe", "Sosyal Bilimler", "Temel Matematik", "Fen Bilimleri"},
			ScoringSystem:      models.ScoringNetCalculation,
			NegativeScoring:    true,
			WrongAnswerPenalty: 0.25,
			OfficialExamDates:  []time.Time{examDate(2026, time.March, 29)},
			Priority:           6,
		},
		{
			ID:              "polis-pomem",
			Name:            "POMEM - Polis Meslek Eğitim Merkezi Giriş Sınavı",
			Type:            models.ExamPolis,
			DurationSeconds: 120 * 60,
			TotalQuestions:  100,
			PassingScore:    60,
			Subjects:        []string{"Genel Yetenek", "Genel Kültür", "Mevzuat"},
			ScoringSystem:   models.ScoringPercentage,
			Priority:        7,
		},
		{
			ID:              "ehliyet-b",
			Name:            "Ehliyet Sınavı (B Sınıfı)",
			Type:            models.ExamEhliyet,
			DurationSeconds: 45 * 60,
			TotalQuestions:  50,
			PassingScore:    70,
			Subjects:        []string{"İlk Yardım", "Trafik ve Çevre", "Araç Tekniği", "Trafik Adabı"},
			Sections: []models.ExamSection{
				{Name: "İlk Yardım", QuestionCount: 12},
				{Name: "Trafik ve Çevre", QuestionCount: 23},
				{Name: "Araç Tekniği", QuestionCount: 9},
				{Name: "Trafik Adabı", QuestionCount: 6},
			},
			// Rolling exam: sittings run continuously, so no fixed dates.
			ScoringSystem: models.ScoringPercentage,
			Priority:      8,
		},
		{
			ID:              "src4",
			Name:            "SRC-4 Mesleki Yeterlilik Sınavı",
			Type:            models.ExamSRC,
			DurationSeconds: 60 * 60,
			TotalQuestions:  50,
			PassingScore:    60,
			Subjects:        []string{"Trafik Mevzuatı", "Güvenli Sürüş", "Yolcu Taşımacılığı"},
			ScoringSystem:   models.ScoringPercentage,
			Priority:        9,
		},
	}
}
