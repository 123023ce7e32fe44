package progress

import "strings"

var knownTitles = map[string]string{
	"qiskit":                                  "Qiskit Quantum Programming",
	"qutip":                                   "QuTiP Learning Path",
	"superconductivity":                       "Superconductivity Study",
	"superconductivity_study_roadmap":         "Superconductivity Study Roadmap",
	"superconducting_qubit_evolution_roadmap": "Superconducting Qubit Evolution Roadmap",
	"custom":                                  "Custom Roadmap",
	"custom_python":                           "Python Import Roadmap",
	"json_import":                             "JSON Import Roadmap",
}

// RoadmapTitle returns a display title for a roadmap type.
func RoadmapTitle(roadmapType string) string {
	if title, ok := knownTitles[roadmapType]; ok {
		return title
	}

	words := strings.Split(roadmapType, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
