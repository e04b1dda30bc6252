package seeder

import (
	"github.com/google/uuid"

	"talentmatch/internal/domain/candidate"
	"talentmatch/internal/domain/opportunity"
	"talentmatch/internal/domain/organization"
)

func intPtr(v int) *int          { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

var demoOrganizations = []organization.Record{
	{Name: "Nexalead", SizeCategory: "small", Sector: "software", City: "Paris"},
	{Name: "Helvetia Santé", SizeCategory: "large", Sector: "healthcare", City: "Lyon"},
	{Name: "Volt Industrie", SizeCategory: "medium", Sector: "manufacturing", City: "Nantes"},
}

type opportunitySeed struct {
	orgName string
	record  opportunity.Record
}

var demoOpportunities = []opportunitySeed{
	{
		orgName: "Nexalead",
		record: opportunity.Record{
			ID:           uuid.MustParse("3f1a6c1e-9d1b-4c7a-8a38-111111111111"),
			Title:        "Développeur Backend Go",
			Sector:       "software",
			Skills:       []string{"go", "postgresql", "redis", "docker"},
			SalaryMin:    intPtr(48000),
			SalaryMax:    intPtr(58000),
			WorkMode:     "hybrid",
			City:         "Paris",
			Lat:          floatPtr(48.8566),
			Lng:          floatPtr(2.3522),
			ContractType: "permanent",
			Urgency:      "within_month",
			ProcessStage: "sourcing",
			SourceURL:    strPtr("https://jobs.example.com/job/nexalead-backend-go"),
		},
	},
	{
		orgName: "Helvetia Santé",
		record: opportunity.Record{
			ID:             uuid.MustParse("3f1a6c1e-9d1b-4c7a-8a38-222222222222"),
			Title:          "Data Engineer",
			Sector:         "healthcare",
			Skills:         []string{"python", "sql", "airflow"},
			SalaryMin:      intPtr(42000),
			SalaryMax:      intPtr(52000),
			WorkMode:       "remote_100",
			City:           "Lyon",
			ContractType:   "permanent",
			Urgency:        "immediate",
			ApplicantCount: intPtr(4),
			ProcessStage:   "screening",
			SourceURL:      strPtr("https://jobs.example.com/job/helvetia-data-engineer"),
		},
	},
	{
		orgName: "Volt Industrie",
		record: opportunity.Record{
			ID:           uuid.MustParse("3f1a6c1e-9d1b-4c7a-8a38-333333333333"),
			Title:        "Chef de Projet Industriel",
			Sector:       "manufacturing",
			Skills:       []string{"gestion de projet", "lean", "supply chain"},
			SalaryMin:    intPtr(40000),
			SalaryMax:    intPtr(46000),
			WorkMode:     "on_site",
			City:         "Nantes",
			Lat:          floatPtr(47.2184),
			Lng:          floatPtr(-1.5536),
			ContractType: "fixed_term",
			Urgency:      "flexible",
			ProcessStage: "sourcing",
			SourceURL:    strPtr("https://jobs.example.com/job/volt-chef-de-projet"),
		},
	},
}

var demoCandidates = []candidate.Profile{
	{
		ID:                     uuid.MustParse("9d2b7c4a-5e6f-4a1b-9c3d-aaaaaaaaaaaa"),
		FullName:               "Camille Moreau",
		Headline:               "Développeuse Backend Go",
		Skills:                 []string{"go", "postgresql", "kubernetes"},
		ExperienceYears:        5,
		City:                   "Paris",
		Lat:                    floatPtr(48.8606),
		Lng:                    floatPtr(2.3376),
		SalaryMin:              intPtr(50000),
		SalaryMax:              intPtr(60000),
		Motivations:            []string{"remuneration", "flexibilite", "perspectives_evolution"},
		PreferredCompanySizes:  []string{"small", "medium"},
		PreferredWorkModes:     []string{"hybrid", "remote_100"},
		PreferredSectors:       []string{"software"},
		PreferredContractTypes: []string{"permanent"},
		NoticePeriodDays:       intPtr(30),
		MaxCommuteMinutes:      intPtr(45),
	},
	{
		ID:                     uuid.MustParse("9d2b7c4a-5e6f-4a1b-9c3d-bbbbbbbbbbbb"),
		FullName:               "Julien Bernard",
		Headline:               "Data Engineer",
		Skills:                 []string{"python", "sql", "spark"},
		ExperienceYears:        3,
		City:                   "Bordeaux",
		SalaryMin:              intPtr(40000),
		SalaryMax:              intPtr(48000),
		Motivations:            []string{"equilibre_vie", "sens_mission"},
		PreferredWorkModes:     []string{"remote_100"},
		PreferredSectors:       []string{"healthcare", "software"},
		PreferredContractTypes: []string{"permanent", "fixed_term"},
		NoticePeriodDays:       intPtr(7),
	},
}
