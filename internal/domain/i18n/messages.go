package i18n

// Message keys used by the query mapper.
const (
	MsgYear             = "Year"
	MsgScore            = "Score"
	MsgCount            = "Count"
	MsgCriterion        = "Criterion"
	MsgAvgWorldRank     = "Average world rank of universities by year"
	MsgAvgIndicator     = "Average %s by year"
	MsgAvgCriteria      = "Average criteria scores by year"
	MsgRadarUniversity  = "Criteria scores for university %s"
	MsgRadarCountry     = "Criteria scores for country %s"
	MsgRadarPlaceholder = "Please select a university or country"
	MsgHistogram        = "Distribution of criteria scores"
	MsgScatter          = "Relationship between %s and %s"
	MsgUniversityTrend  = "%s of university %s by year"
	MsgUniversityScores = "Criteria scores of university %s by year"
	MsgCompareCriteria  = "Criteria scores of selected universities (%s)"
	MsgCompareRanking   = "World rank of selected universities by year"
	MsgCompareStudents  = "Students, student/staff ratio and international students of selected universities (%s)"
	MsgNoData           = "No data for the current selection"
)

var russian = map[string]string{
	"World rank":                "Мировой рейтинг",
	"Teaching":                  "Преподавание",
	"Research":                  "Исследование",
	"Citations":                 "Цитирование",
	"Industry income":           "Доход от индустрии",
	"Number of students":        "Численность студентов",
	"Student/staff ratio":       "Соотношение студентов и преподавателей",
	"Share of international students": "Доля иностранных студентов",

	MsgYear:             "Год",
	MsgScore:            "Баллы",
	MsgCount:            "Количество",
	MsgCriterion:        "Критерий",
	MsgAvgWorldRank:     "Средний мировой рейтинг университетов по годам",
	MsgAvgIndicator:     "Средний балл по критерию: %s по годам",
	MsgAvgCriteria:      "Средние баллы по критериям по годам",
	MsgRadarUniversity:  "Оценки по критериям для университета %s",
	MsgRadarCountry:     "Оценки по критериям для страны %s",
	MsgRadarPlaceholder: "Пожалуйста, выберите университет или страну",
	MsgHistogram:        "Распределение баллов по критериям",
	MsgScatter:          "Взаимосвязь между %s и %s",
	MsgUniversityTrend:  "%s университета %s по годам",
	MsgUniversityScores: "Изменение баллов по критериям для университета %s по годам",
	MsgCompareCriteria:  "Сравнение баллов по критериям для выбранных университетов (%s)",
	MsgCompareRanking:   "Сравнение изменения мирового рейтинга для нескольких университетов по годам",
	MsgCompareStudents:  "Сравнение численности студентов, соотношения студентов и преподавателей и процента иностранных студентов для выбранных университетов (%s)",
	MsgNoData:           "Нет данных для текущего выбора",

	MsgPageGlobalTrends: "Глобальные тенденции",
	MsgPageCriteria:     "Анализ критериев",
	MsgPageUniversity:   "Результаты университета",
	MsgPageComparison:   "Сравнение университетов",
}

// Page titles.
const (
	MsgPageGlobalTrends = "Global trends"
	MsgPageCriteria     = "Criteria analysis"
	MsgPageUniversity   = "University results"
	MsgPageComparison   = "University comparison"
)
