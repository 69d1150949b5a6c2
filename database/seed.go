package database

import (
	"fmt"
	"log"
	"strings"

	"github.com/vidyasetu/school-api/model"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("🌱 Starting database seeding...")

	// Run seeds in order (respecting foreign key constraints)
	if err := s.SeedClassLists(); err != nil {
		return fmt.Errorf("failed to seed class lists: %w", err)
	}

	if err := s.SeedSubjects(); err != nil {
		return fmt.Errorf("failed to seed subjects: %w", err)
	}

	if err := s.SeedSubjectClasses(); err != nil {
		return fmt.Errorf("failed to seed subject-class links: %w", err)
	}

	if err := s.SeedChapters(); err != nil {
		return fmt.Errorf("failed to seed chapters: %w", err)
	}

	log.Println("✅ Database seeding completed successfully!")
	return nil
}

// SeedClassLists creates the curriculum class templates: classes 1-10 and
// the three streams for classes 11 and 12.
func (s *Seeder) SeedClassLists() error {
	var count int64
	if err := s.db.Model(&model.ClassList{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("⏭️  Class lists already seeded, skipping...")
		return nil
	}

	var templates []model.ClassList
	for n := 1; n <= 10; n++ {
		templates = append(templates, model.ClassList{
			ClassNumber: n,
			Code:        fmt.Sprintf("%d", n),
			Name:        fmt.Sprintf("Class %d", n),
		})
	}

	streams := []string{model.StreamScience, model.StreamArts, model.StreamCommerce}
	titles := map[string]string{
		model.StreamScience:  "Science",
		model.StreamArts:     "Arts",
		model.StreamCommerce: "Commerce",
	}
	for n := 11; n <= 12; n++ {
		for _, stream := range streams {
			templates = append(templates, model.ClassList{
				ClassNumber: n,
				Stream:      stream,
				Code:        fmt.Sprintf("%d-%s", n, titles[stream]),
				Name:        fmt.Sprintf("Class %d (%s)", n, titles[stream]),
			})
		}
	}

	// Normalize codes to uppercase, e.g. "11-SCIENCE"
	for i := range templates {
		templates[i].Code = strings.ToUpper(templates[i].Code)
	}

	if err := s.db.Create(&templates).Error; err != nil {
		return err
	}

	log.Printf("📚 Seeded %d class list templates", len(templates))
	return nil
}

// SeedSubjects creates the global subject catalog.
func (s *Seeder) SeedSubjects() error {
	var count int64
	if err := s.db.Model(&model.Subject{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("⏭️  Subjects already seeded, skipping...")
		return nil
	}

	subjects := []model.Subject{
		{Name: "English", Code: "ENG"},
		{Name: "Hindi", Code: "HIN"},
		{Name: "Mathematics", Code: "MATH"},
		{Name: "Science", Code: "SCI"},
		{Name: "Social Science", Code: "SST"},
		{Name: "Physics", Code: "PHY"},
		{Name: "Chemistry", Code: "CHEM"},
		{Name: "Biology", Code: "BIO"},
		{Name: "Accountancy", Code: "ACC"},
		{Name: "Business Studies", Code: "BST"},
		{Name: "Economics", Code: "ECO"},
		{Name: "History", Code: "HIST"},
		{Name: "Political Science", Code: "POL"},
	}

	if err := s.db.Create(&subjects).Error; err != nil {
		return err
	}

	log.Printf("📖 Seeded %d subjects", len(subjects))
	return nil
}

// SeedSubjectClasses links subjects to the class templates they are taught
// at: the common core for classes 1-10 and stream subjects for 11-12.
func (s *Seeder) SeedSubjectClasses() error {
	var count int64
	if err := s.db.Model(&model.SubjectClass{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("⏭️  Subject-class links already seeded, skipping...")
		return nil
	}

	// Subject codes per class template code
	curriculum := map[string][]string{}
	for n := 1; n <= 10; n++ {
		curriculum[fmt.Sprintf("%d", n)] = []string{"ENG", "HIN", "MATH", "SCI", "SST"}
	}
	for _, n := range []string{"11", "12"} {
		curriculum[n+"-SCIENCE"] = []string{"ENG", "MATH", "PHY", "CHEM", "BIO"}
		curriculum[n+"-ARTS"] = []string{"ENG", "HIST", "POL", "ECO"}
		curriculum[n+"-COMMERCE"] = []string{"ENG", "ACC", "BST", "ECO"}
	}

	var subjects []model.Subject
	if err := s.db.Find(&subjects).Error; err != nil {
		return err
	}
	subjectByCode := make(map[string]uint, len(subjects))
	for _, sub := range subjects {
		subjectByCode[sub.Code] = sub.ID
	}

	var classLists []model.ClassList
	if err := s.db.Find(&classLists).Error; err != nil {
		return err
	}

	var links []model.SubjectClass
	for _, cl := range classLists {
		for _, code := range curriculum[cl.Code] {
			subjectID, ok := subjectByCode[code]
			if !ok {
				continue
			}
			links = append(links, model.SubjectClass{
				SubjectID:   subjectID,
				ClassListID: cl.ID,
			})
		}
	}

	if len(links) == 0 {
		return nil
	}
	if err := s.db.Create(&links).Error; err != nil {
		return err
	}

	log.Printf("🔗 Seeded %d subject-class links", len(links))
	return nil
}

// SeedChapters adds starter chapters for a couple of subject-class links so
// fresh installs have browsable curriculum data.
func (s *Seeder) SeedChapters() error {
	var count int64
	if err := s.db.Model(&model.Chapter{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("⏭️  Chapters already seeded, skipping...")
		return nil
	}

	starter := map[string]map[string][]string{
		"9": {
			"MATH": {"Number Systems", "Polynomials", "Coordinate Geometry", "Linear Equations in Two Variables"},
			"SCI":  {"Matter in Our Surroundings", "Is Matter Around Us Pure", "Atoms and Molecules"},
		},
		"11-SCIENCE": {
			"PHY": {"Units and Measurement", "Motion in a Straight Line", "Laws of Motion"},
		},
	}

	var chapters []model.Chapter
	for classCode, perSubject := range starter {
		var cl model.ClassList
		if err := s.db.Where("code = ?", classCode).First(&cl).Error; err != nil {
			continue
		}
		for subjectCode, titles := range perSubject {
			var link model.SubjectClass
			err := s.db.Joins("JOIN subjects ON subjects.id = subject_classes.subject_id").
				Where("subjects.code = ? AND subject_classes.class_list_id = ?", subjectCode, cl.ID).
				First(&link).Error
			if err != nil {
				continue
			}
			for i, title := range titles {
				chapters = append(chapters, model.Chapter{
					SubjectClassID: link.ID,
					Number:         i + 1,
					Title:          title,
				})
			}
		}
	}

	if len(chapters) == 0 {
		return nil
	}
	if err := s.db.Create(&chapters).Error; err != nil {
		return err
	}

	log.Printf("📑 Seeded %d chapters", len(chapters))
	return nil
}
