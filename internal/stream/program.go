package stream

import (
	"strings"

	"career-brief-workers/internal/models"
)

// ProgramField is the field of study behind a degree or program name.
type ProgramField string

const (
	FieldTechnology     ProgramField = "technology"
	FieldEngineering    ProgramField = "engineering"
	FieldBusiness       ProgramField = "business"
	FieldHealthcare     ProgramField = "healthcare"
	FieldPharmacy       ProgramField = "pharmacy"
	FieldLifeSciences   ProgramField = "life_sciences"
	FieldPureSciences   ProgramField = "pure_sciences"
	FieldCommerce       ProgramField = "commerce"
	FieldArtsHumanities ProgramField = "arts_humanities"
	FieldLaw            ProgramField = "law"
	FieldDesign         ProgramField = "design"
	FieldAgriculture    ProgramField = "agriculture"
	FieldArchitecture   ProgramField = "architecture"
	FieldUnknown        ProgramField = ""
)

// Priority order matters: "ba llb" is law before arts, "b.arch" is
// architecture before arts, "political science" is arts before pure sciences.
var programKeywords = []struct {
	field    ProgramField
	keywords []string
}{
	{FieldLaw, []string{"llb", "llm", "law"}},
	{FieldPharmacy, []string{"pharm"}},
	{FieldArchitecture, []string{"b.arch", "m.arch", "barch", "architecture", "urban planning"}},
	{FieldDesign, []string{"b.des", "m.des", "bdes", "design", "fashion"}},
	{FieldLifeSciences, []string{"biotech", "microbiology", "biochemistry", "genetics", "life science"}},
	{FieldTechnology, []string{"computer", "information technology", "mca", "bca", "software", "data science", "artificial intelligence", "machine learning", "cse"}},
	{FieldEngineering, []string{"b.tech", "m.tech", "btech", "mtech", "b.e.", "engineering", "mechanical", "civil", "electrical", "electronics"}},
	{FieldHealthcare, []string{"mbbs", "bds", "bams", "bhms", "nursing", "physiotherapy", "medical", "medicine", "health"}},
	{FieldAgriculture, []string{"agri", "food tech", "horticulture"}},
	{FieldBusiness, []string{"mba", "bba", "management", "business"}},
	{FieldCommerce, []string{"b.com", "m.com", "bcom", "mcom", "commerce", "chartered", "cma", "accounting", "finance"}},
	{FieldArtsHumanities, []string{"english", "history", "psychology", "sociology", "political", "humanities", "arts", "b.a", "m.a", "journalism", "education"}},
	{FieldPureSciences, []string{"physics", "chemistry", "mathematics", "statistics", "b.sc", "m.sc", "bsc", "msc", "science"}},
}

var fieldCategories = map[ProgramField]models.StreamCategory{
	FieldTechnology:     models.StreamScience,
	FieldEngineering:    models.StreamScience,
	FieldHealthcare:     models.StreamScience,
	FieldPharmacy:       models.StreamScience,
	FieldLifeSciences:   models.StreamScience,
	FieldPureSciences:   models.StreamScience,
	FieldAgriculture:    models.StreamScience,
	FieldArchitecture:   models.StreamScience,
	FieldBusiness:       models.StreamCommerce,
	FieldCommerce:       models.StreamCommerce,
	FieldArtsHumanities: models.StreamArts,
	FieldLaw:            models.StreamArts,
	FieldDesign:         models.StreamArts,
}

// ClassifyProgram maps a program or degree name to its field. Unknown
// programs return FieldUnknown.
func ClassifyProgram(name string) ProgramField {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return FieldUnknown
	}
	for _, entry := range programKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.field
			}
		}
	}
	return FieldUnknown
}

// Category returns the coarse stream category a field belongs to.
func (f ProgramField) Category() models.StreamCategory {
	return fieldCategories[f]
}

// FieldReference is the typical role and certification landscape for a
// program field.
type FieldReference struct {
	Label          string
	Programs       []string
	Roles          []string
	Certifications []string
}

var fieldReferences = map[ProgramField]FieldReference{
	FieldTechnology: {
		Label:          "Technology & IT",
		Programs:       []string{"MCA", "BCA", "B.Tech/M.Tech CS/IT", "Computer Science", "Information Technology"},
		Roles:          []string{"Software Engineer", "Data Scientist", "AI/ML Engineer", "Cloud Architect", "Full Stack Developer", "DevOps Engineer"},
		Certifications: []string{"AWS", "Azure", "GCP", "Kubernetes", "Docker", "Python", "Java"},
	},
	FieldEngineering: {
		Label:          "Engineering",
		Programs:       []string{"B.Tech/M.Tech Mechanical, Civil, Electrical, Electronics"},
		Roles:          []string{"Design Engineer", "Project Engineer", "R&D Engineer", "Quality Engineer", "Technical Consultant"},
		Certifications: []string{"AutoCAD", "MATLAB", "PMP", "Six Sigma"},
	},
	FieldBusiness: {
		Label:          "Business & Management",
		Programs:       []string{"MBA", "BBA", "Management Studies"},
		Roles:          []string{"Product Manager", "Business Analyst", "Management Consultant", "Financial Analyst", "Marketing Manager"},
		Certifications: []string{"PMP", "Six Sigma", "CFA", "Digital Marketing", "Agile/Scrum"},
	},
	FieldHealthcare: {
		Label:          "Healthcare & Medical",
		Programs:       []string{"MBBS", "BDS", "BAMS", "BHMS", "Nursing", "Physiotherapy", "Medical Lab Technology"},
		Roles:          []string{"Doctor", "Dentist", "Medical Officer", "Healthcare Consultant", "Clinical Researcher", "Hospital Administrator"},
		Certifications: []string{"Medical specializations", "Healthcare Management", "Clinical Research"},
	},
	FieldPharmacy: {
		Label:          "Pharmacy",
		Programs:       []string{"B.Pharm", "M.Pharm", "Pharm.D"},
		Roles:          []string{"Pharmacist", "Clinical Pharmacist", "Drug Safety Associate", "Regulatory Affairs", "Medical Writer", "Pharmaceutical Sales"},
		Certifications: []string{"Drug Regulatory Affairs", "Clinical Research", "Pharmacovigilance", "Quality Assurance"},
	},
	FieldLifeSciences: {
		Label:          "Life Sciences & Biotechnology",
		Programs:       []string{"B.Sc/M.Sc Biotechnology", "Microbiology", "Biochemistry", "Genetics"},
		Roles:          []string{"Research Scientist", "Biotech Analyst", "Quality Control Analyst", "Clinical Research Associate", "Lab Technician"},
		Certifications: []string{"Good Laboratory Practice", "Clinical Research", "Bioinformatics tools"},
	},
	FieldPureSciences: {
		Label:          "Pure Sciences",
		Programs:       []string{"B.Sc/M.Sc Physics", "Chemistry", "Mathematics", "Statistics"},
		Roles:          []string{"Research Scientist", "Data Analyst", "Quality Analyst", "Lab Technician", "Academic Researcher", "Science Educator"},
		Certifications: []string{"Data Science", "Statistical Analysis", "Research Methodology"},
	},
	FieldCommerce: {
		Label:          "Commerce & Finance",
		Programs:       []string{"B.Com", "M.Com", "CA", "CMA", "CS"},
		Roles:          []string{"Chartered Accountant", "Financial Analyst", "Tax Consultant", "Auditor", "Investment Banker", "Accountant"},
		Certifications: []string{"CA", "CMA", "CFA", "ACCA", "Taxation", "GST"},
	},
	FieldArtsHumanities: {
		Label:          "Arts & Humanities",
		Programs:       []string{"BA/MA English", "History", "Psychology", "Sociology", "Political Science"},
		Roles:          []string{"Content Writer", "Journalist", "Psychologist", "Social Worker", "HR Professional", "Civil Services", "Teacher"},
		Certifications: []string{"Content Writing", "Counseling", "HR Management", "Public Administration"},
	},
	FieldLaw: {
		Label:          "Law",
		Programs:       []string{"LLB", "LLM", "BA LLB"},
		Roles:          []string{"Lawyer", "Legal Advisor", "Corporate Counsel", "Legal Analyst", "Compliance Officer", "Judge"},
		Certifications: []string{"Corporate Law", "IPR", "Cyber Law"},
	},
	FieldDesign: {
		Label:          "Design & Creative",
		Programs:       []string{"B.Des", "M.Des", "Fashion Design", "Graphic Design"},
		Roles:          []string{"UI/UX Designer", "Graphic Designer", "Fashion Designer", "Product Designer", "Creative Director"},
		Certifications: []string{"Adobe Suite", "Figma", "Sketch", "Design Thinking"},
	},
	FieldAgriculture: {
		Label:          "Agriculture & Food Science",
		Programs:       []string{"B.Sc/M.Sc Agriculture", "Food Technology", "Horticulture"},
		Roles:          []string{"Agricultural Officer", "Food Technologist", "Quality Assurance Manager", "Agronomist", "Research Scientist"},
		Certifications: []string{"Food Safety", "Organic Farming", "Agricultural Extension"},
	},
	FieldArchitecture: {
		Label:          "Architecture & Planning",
		Programs:       []string{"B.Arch", "M.Arch", "Urban Planning"},
		Roles:          []string{"Architect", "Urban Planner", "Interior Designer", "Landscape Architect", "Project Manager"},
		Certifications: []string{"AutoCAD", "Revit", "LEED", "Project Management"},
	},
}

// Reference returns the reference landscape for a field.
func Reference(f ProgramField) (FieldReference, bool) {
	ref, ok := fieldReferences[f]
	return ref, ok
}
