package types

import "time"

// JobMatch is a job ranked against a profile. Score is the cosine similarity
// rounded to 4 decimals; Rank starts at 1.
type JobMatch struct {
	Job   JobRecord `json:"job"`
	Score float64   `json:"score"`
	Rank  int       `json:"rank"`
}

// MatchRecord is a persisted (user, job, score) triple shown on the dashboard
type MatchRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	JobID     string    `json:"job_id,omitempty"`
	JobTitle  string    `json:"job_title"`
	Company   string    `json:"company,omitempty"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// SkillSimilarity is a job skill term with its best similarity against the
// user's skills
type SkillSimilarity struct {
	Term       string  `json:"term"`
	Similarity float64 `json:"similarity"`
}

// MissingSkill aggregates one missing term across a job corpus.
// MeanDeficit is 1 - MeanSimilarity.
type MissingSkill struct {
	Term           string  `json:"term"`
	Occurrences    int     `json:"occurrences"`
	MeanSimilarity float64 `json:"mean_similarity"`
	MeanDeficit    float64 `json:"mean_deficit"`
}

// LearningRecommendation lists learning resources for a missing skill.
// Fallback is set when the static resource list was used.
type LearningRecommendation struct {
	Skill     string   `json:"skill"`
	Resources []string `json:"resources"`
	Fallback  bool     `json:"fallback,omitempty"`
}

// SkillGapReport is the outcome of a gap analysis over a job corpus
type SkillGapReport struct {
	MissingSkills   []MissingSkill           `json:"missing_skills"`
	TopSkills       []string                 `json:"top_skills"`
	Recommendations []LearningRecommendation `json:"recommendations,omitempty"`
}
