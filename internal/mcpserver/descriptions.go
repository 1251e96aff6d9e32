package mcpserver

// Tool descriptions with interpretation guidance for LLMs.
// Each description explains what the tool does, when to use it,
// how to interpret results, and what comes back.

func describeComputeCGPA() string {
	return `Computes the credit-weighted CGPA for a list of courses, optionally combined with a previous CGPA and credit total.

USE WHEN:
- A student asks what their CGPA is or will be
- Checking how a planned grade changes the running average
- Combining a new term with prior academic history

INTERPRETING RESULTS:
- currentCgpa covers only the listed courses
- combinedCgpa folds in previous_cgpa weighted by previous_credits
- Both are rounded half away from zero to two decimals ("0.00" with no credits)
- totalCredits is always a two-decimal string
- Grade points: A+ 4.00, A 3.75, B+ 3.50, B 3.25, C+ 3.00, C 2.75, D+ 2.50, D 2.25, F 0.00

METRICS RETURNED:
- currentCgpa, combinedCgpa, courseCredits, totalCredits, weightedPoints, courses`
}

func describeAnalyzeCourses() string {
	return `Aggregates a course list into grade distribution, per-semester GPA and summary statistics.

USE WHEN:
- Summarizing a transcript
- Spotting the most common or best grade
- Looking for an upward or downward GPA trend across semesters

INTERPRETING RESULTS:
- mostCommonGrade breaks ties toward the better grade
- highestGrade is the best grade with at least one occurrence
- "N/A" appears for every aggregate when there are no courses
- trend.slope > 0 means GPA is rising per semester (semesters sort by label)
- trend is all zeros with fewer than two semesters
- crossTab counts grades per credit-hour weight

METRICS RETURNED:
- totalCourses, totalCredits, cgpa, mostCommonGrade, highestGrade
- gradeCounts (every grade, best first), semesterGpas, crossTab, trend, pointStats`
}

func describeValidateRows() string {
	return `Validates spreadsheet rows in the Course Name | Grade | Credit Hours layout without changing any saved data.

USE WHEN:
- Checking a spreadsheet before importing it
- Explaining why rows were skipped on import

INTERPRETING RESULTS:
- The first row is treated as the header and never validated
- Columns are positional: name, grade, credit hours, optional semester
- Entirely blank rows are skipped silently
- Every other rejected row appears in skipped with its 1-based row number and reason
- outcome is "imported" when at least one row is valid, otherwise "empty"

METRICS RETURNED:
- courses (normalized, grades upper-cased), skipped, outcome`
}

func describeGradingScale() string {
	return `Returns the fixed letter-grade to grade-point table.

USE WHEN:
- Explaining how a grade contributes to the CGPA
- Converting between letter grades and points

INTERPRETING RESULTS:
- Grades are ordered best first
- band groups grades as excellent, good, satisfactory, pass or fail
- percent is the numerical score range the letter stands for
- I, W and UW carry no grade point and are not listed

METRICS RETURNED:
- grade, percent, point, band for each of the nine grades`
}
