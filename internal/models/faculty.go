package models

// Universities offered on registration. UniversityOther requires a free-text name.
const (
	UniversityYARSI = "Universitas YARSI"
	UniversityOther = "Other"
)

// AcademicRanks lists the accepted jabatan akademik values.
var AcademicRanks = []string{"Asisten Ahli", "Lektor", "Lektor Kepala", "Guru Besar"}

// Faculty is a faculty with its study programmes.
type Faculty struct {
	Name   string   `json:"name"`
	Majors []string `json:"majors"`
}

// Faculties is the faculty to major table, in display order.
var Faculties = []Faculty{
	{Name: "Fakultas Kedokteran", Majors: []string{"Kedokteran"}},
	{Name: "Fakultas Kedokteran Gigi", Majors: []string{"Kedokteran Gigi"}},
	{Name: "Fakultas Teknologi Informasi", Majors: []string{"Teknik Informatika", "Perpustakaan dan Sains Informasi"}},
	{Name: "Fakultas Ekonomi Bisnis", Majors: []string{"Manajemen", "Akuntansi"}},
	{Name: "Fakultas Hukum", Majors: []string{"Hukum"}},
	{Name: "Fakultas Psikologi", Majors: []string{"Psikologi"}},
}

// FacultyMajors returns the majors of faculty and whether it exists.
func FacultyMajors(faculty string) ([]string, bool) {
	for _, f := range Faculties {
		if f.Name == faculty {
			return f.Majors, true
		}
	}
	return nil, false
}
