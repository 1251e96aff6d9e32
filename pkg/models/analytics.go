package models

// GradeCount is one histogram bucket.
type GradeCount struct {
	Grade Grade `json:"grade" toon:"grade"`
	Count int   `json:"count" toon:"count"`
}

// SemesterGPA is the weighted GPA of one semester bucket.
type SemesterGPA struct {
	Semester string  `json:"semester" toon:"semester"`
	GPA      float64 `json:"gpa" toon:"gpa"`
	Credits  int     `json:"credits" toon:"credits"`
	Courses  int     `json:"courses" toon:"courses"`
}

// CrossTabRow counts courses per grade for one credit-hour value.
type CrossTabRow struct {
	CreditHours int          `json:"creditHours" toon:"creditHours"`
	Counts      []GradeCount `json:"counts" toon:"counts"`
}

// TrendStats holds regression statistics over the semester series.
type TrendStats struct {
	Slope       float64 `json:"slope" toon:"slope"`             // GPA change per semester
	Intercept   float64 `json:"intercept" toon:"intercept"`     // GPA at the first semester
	RSquared    float64 `json:"r_squared" toon:"r_squared"`     // Goodness of fit (0-1)
	Correlation float64 `json:"correlation" toon:"correlation"` // Pearson correlation (-1 to 1)
}

// PointStats summarizes credit-weighted grade points.
type PointStats struct {
	Mean   float64 `json:"mean" toon:"mean"`
	StdDev float64 `json:"std_dev" toon:"std_dev"`
}

// Analytics is the aggregate summary of a course list.
type Analytics struct {
	TotalCourses    int           `json:"totalCourses" toon:"totalCourses"`
	TotalCredits    int           `json:"totalCredits" toon:"totalCredits"`
	CGPA            string        `json:"cgpa" toon:"cgpa"`
	MostCommonGrade string        `json:"mostCommonGrade" toon:"mostCommonGrade"`
	HighestGrade    string        `json:"highestGrade" toon:"highestGrade"`
	GradeCounts     []GradeCount  `json:"gradeCounts" toon:"gradeCounts"`
	SemesterGPAs    []SemesterGPA `json:"semesterGpas" toon:"semesterGpas"`
	CrossTab        []CrossTabRow `json:"crossTab" toon:"crossTab"`
	Trend           TrendStats    `json:"trend" toon:"trend"`
	PointStats      PointStats    `json:"pointStats" toon:"pointStats"`
}

// Count returns the histogram count for g.
func (a *Analytics) Count(g Grade) int {
	for _, gc := range a.GradeCounts {
		if gc.Grade == g {
			return gc.Count
		}
	}
	return 0
}

// CGPAResult carries every figure the summary view displays.
type CGPAResult struct {
	CurrentCGPA    string  `json:"currentCgpa" toon:"currentCgpa"`
	CombinedCGPA   string  `json:"combinedCgpa" toon:"combinedCgpa"`
	CourseCredits  int     `json:"courseCredits" toon:"courseCredits"`
	TotalCredits   string  `json:"totalCredits" toon:"totalCredits"`
	WeightedPoints float64 `json:"weightedPoints" toon:"weightedPoints"`
	Courses        int     `json:"courses" toon:"courses"`
}
