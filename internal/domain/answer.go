package domain

// Intent names the rule that produced an answer.
type Intent string

const (
	IntentGreeting              Intent = "greeting"
	IntentStudentCount          Intent = "student_count"
	IntentSubjectList           Intent = "subject_list"
	IntentAverage               Intent = "average"
	IntentStudyTips             Intent = "study_tips"
	IntentHighestSubject        Intent = "highest_subject"
	IntentLowestSubject         Intent = "lowest_subject"
	IntentAgeDistribution       Intent = "age_distribution"
	IntentGradeDistribution     Intent = "grade_distribution"
	IntentScoreAbsenceCorrelate Intent = "score_absence_correlation"
	IntentTopStudent            Intent = "top_student"
	IntentLowestAbsence         Intent = "lowest_absence_student"
	IntentScorePrediction       Intent = "score_prediction"
	IntentClusters              Intent = "clusters"
	IntentGamification          Intent = "gamification"
	IntentGoodGrades            Intent = "good_grades"
	IntentLearningStrategy      Intent = "learning_strategy"
	IntentPerformanceOverview   Intent = "performance_overview"
	IntentDatasetDescription    Intent = "dataset_description"
	IntentLLM                   Intent = "llm"
	IntentFallback              Intent = "fallback"
)

// Answer is the router's reply to one question.
type Answer struct {
	Intent Intent
	Text   string
}
