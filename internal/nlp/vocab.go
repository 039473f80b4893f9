// internal/nlp/vocab.go
package nlp

// Keyword vocabularies for entity extraction. Ordered slices keep the
// extraction loops deterministic.

type monthAlias struct {
	name string
	num  int
}

var monthAliases = []monthAlias{
	{"january", 1}, {"february", 2}, {"march", 3}, {"april", 4},
	{"may", 5}, {"june", 6}, {"july", 7}, {"august", 8},
	{"september", 9}, {"october", 10}, {"november", 11}, {"december", 12},
	{"jan", 1}, {"feb", 2}, {"mar", 3}, {"apr", 4},
	{"jun", 6}, {"jul", 7}, {"aug", 8}, {"sep", 9}, {"oct", 10}, {"nov", 11}, {"dec", 12},
}

// monthDisplay renders month numbers for answers.
var monthDisplay = [...]string{
	"", "January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

type keywordGroup struct {
	name     string
	keywords []string
}

var ageGroups = []keywordGroup{
	{"children", []string{"children", "child", "kids", "kid", "infant", "baby", "babies",
		"toddler", "young", "pediatric", "under 15", "under 14"}},
	{"adults", []string{"adults", "adult", "working age", "middle age", "middle-aged"}},
	{"elderly", []string{"elderly", "old people", "senior", "seniors", "aged",
		"over 65", "retiree", "geriatric"}},
}

var diseaseGroups = []keywordGroup{
	{"Ischemic heart disease", []string{"heart disease", "ihd", "ischemic", "heart attack", "cardiac", "coronary"}},
	{"Stroke", []string{"stroke", "cerebrovascular"}},
	{"Chronic obstructive pulmonary disease", []string{"copd", "chronic obstructive", "emphysema"}},
	{"Lower respiratory infections", []string{"lower respiratory", "pneumonia", "lri"}},
	{"Upper respiratory infections", []string{"upper respiratory", "uri", "sinusitis"}},
	{"Tracheal, bronchus, and lung cancer", []string{"lung cancer", "tracheal cancer", "bronchus cancer"}},
	{"Larynx cancer", []string{"larynx cancer", "throat cancer", "laryngeal"}},
	{"Tuberculosis", []string{"tuberculosis", "tb"}},
	{"Diabetes mellitus", []string{"diabetes", "diabetic"}},
	{"Asthma", []string{"asthma", "asthmatic", "wheezing"}},
}

var increaseKeywords = []string{
	"rise", "rises", "rising", "increase", "increases", "increasing",
	"higher", "go up", "goes up", "up by", "worsen", "worsens",
	"worse", "spike", "spikes", "grow", "grows",
}

var decreaseKeywords = []string{
	"reduce", "reduces", "reduction", "decrease", "decreases",
	"lower", "lowered", "go down", "goes down", "down by",
	"cut", "cuts", "drop", "drops", "prevent", "save",
	"meet", "meets", "guideline",
}
