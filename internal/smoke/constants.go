package smoke

// Generation defaults.
const (
	DefaultUniversities = 50
	DefaultWorkers      = 4
	scoreScale          = 10.0
	maxStudents         = 60000
	maxStaffRatio       = 40
	maxInternationalPct = 60
)

// Verification tolerance for reported means.
const tolerance = 1e-6

// DefaultYears mirrors the span of the rankings dataset.
var DefaultYears = []int{2011, 2012, 2013, 2014, 2015, 2016}

// Columns of a generated dataset, in file order.
var columns = []string{
	"world_rank", "university_name", "country", "teaching", "international", "research", "citations",
	"income", "total_score", "num_students", "student_staff_ratio", "international_students",
	"female_male_ratio", "year",
}

var countries = []string{"Atlantis", "Lemuria", "Mu", "Hyperborea", "Thule"}
