package reading

import "strings"

// Submission carries a user's answers for every part of one mock.
type Submission struct {
	Part1 []string `json:"part1"`
	Part2 []string `json:"part2"`
	Part3 []string `json:"part3"`
	Part4 []string `json:"part4"`
	Part5 struct {
		Summary []string `json:"summary"`
		MC      []string `json:"mc"`
	} `json:"part5"`
}

// Scores breaks the result down per part.
type Scores struct {
	P1    int `json:"p1"`
	P2    int `json:"p2"`
	P3    int `json:"p3"`
	P4    int `json:"p4"`
	P5    int `json:"p5"`
	Total int `json:"total"`
}

// Score grades a submission against the mock's answer key. Parts 1 and the
// part-5 summary compare case-insensitively, part 2 upper-cases letter
// answers, parts 3, 4 and part-5 MC compare exactly after trimming.
func Score(mock Mock, sub Submission) Scores {
	s := Scores{
		P1: countMatches(mock.Part1.Answers, sub.Part1, strings.ToLower),
		P2: countMatches(mock.Part2.Answers, sub.Part2, strings.ToUpper),
		P3: countMatches(mock.Part3.Answers, sub.Part3, nil),
		P4: countMatches(mock.Part4.Answers, sub.Part4, nil),
	}
	s.P5 = countMatches(mock.Part5.Summary.Answers, sub.Part5.Summary, strings.ToLower) +
		countMatches(mock.Part5.MC.Answers, sub.Part5.MC, nil)
	s.Total = s.P1 + s.P2 + s.P3 + s.P4 + s.P5
	return s
}

func countMatches(key, given []string, fold func(string) string) int {
	n := 0
	for i, want := range key {
		var got string
		if i < len(given) {
			got = given[i]
		}
		want = strings.TrimSpace(want)
		got = strings.TrimSpace(got)
		if fold != nil {
			want = fold(want)
			got = fold(got)
		}
		if got != "" && got == want {
			n++
		}
	}
	return n
}
