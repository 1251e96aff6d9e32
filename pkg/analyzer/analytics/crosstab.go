package analytics

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/panbanda/cgpa/pkg/models"
)

// indexSets maps a key to the set of course positions carrying it.
type indexSets[K comparable] map[K]*roaring.Bitmap

func (s indexSets[K]) add(key K, idx int) {
	bm, ok := s[key]
	if !ok {
		bm = roaring.New()
		s[key] = bm
	}
	bm.Add(uint32(idx))
}

// CrossTabulate counts courses for every (credit hours, grade) pair.
// Credit-hour rows come from the data in ascending order; grade columns
// follow the fixed rank order.
func CrossTabulate(courses []models.Course) []models.CrossTabRow {
	byGrade := make(indexSets[models.Grade])
	byCredits := make(indexSets[int])
	for i, c := range courses {
		byGrade.add(c.Grade, i)
		byCredits.add(c.CreditHours, i)
	}

	credits := make([]int, 0, len(byCredits))
	for ch := range byCredits {
		credits = append(credits, ch)
	}
	sort.Ints(credits)

	rows := make([]models.CrossTabRow, 0, len(credits))
	for _, ch := range credits {
		row := models.CrossTabRow{
			CreditHours: ch,
			Counts:      make([]models.GradeCount, len(models.AllGrades)),
		}
		for i, g := range models.AllGrades {
			count := 0
			if gradeSet, ok := byGrade[g]; ok {
				count = int(gradeSet.AndCardinality(byCredits[ch]))
			}
			row.Counts[i] = models.GradeCount{Grade: g, Count: count}
		}
		rows = append(rows, row)
	}
	return rows
}
