package reading

import "testing"

func testMock() Mock {
	return Mock{
		ID:    "mock-1",
		Part1: Part{Answers: []string{"library", "teacher"}},
		Part2: Part{Answers: []string{"A", "C"}},
		Part3: Part{Answers: []string{"TRUE", "FALSE"}},
		Part4: Part{Answers: []string{"ii", "iv"}},
		Part5: Part5{
			Summary: Part{Answers: []string{"energy"}},
			MC:      Part{Answers: []string{"B"}},
		},
	}
}

func TestScoreFullMarks(t *testing.T) {
	sub := Submission{
		Part1: []string{"Library", " TEACHER "},
		Part2: []string{"a", "c"},
		Part3: []string{"TRUE", "FALSE"},
		Part4: []string{"ii", "iv"},
	}
	sub.Part5.Summary = []string{"Energy"}
	sub.Part5.MC = []string{"B"}

	scores := Score(testMock(), sub)
	if scores.Total != 10 {
		t.Fatalf("expected total 10, got %+v", scores)
	}
	if scores.P1 != 2 || scores.P2 != 2 || scores.P3 != 2 || scores.P4 != 2 || scores.P5 != 2 {
		t.Fatalf("unexpected part scores: %+v", scores)
	}
}

func TestScoreExactPartsAreCaseSensitive(t *testing.T) {
	sub := Submission{
		Part3: []string{"true", "FALSE"}, // part 3 compares exactly
		Part4: []string{"II", "iv"},
	}
	scores := Score(testMock(), sub)
	if scores.P3 != 1 || scores.P4 != 1 {
		t.Fatalf("expected one match per exact part, got %+v", scores)
	}
}

func TestScoreMissingAnswers(t *testing.T) {
	scores := Score(testMock(), Submission{Part1: []string{"library"}})
	if scores.Total != 1 {
		t.Fatalf("expected total 1 with a single answer, got %+v", scores)
	}
}
