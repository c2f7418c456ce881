package detection

import "fmt"

// DOTAClasses are the aerial-imagery class names for oriented-box models
// trained on the DOTA dataset, indexed by class ID.
var DOTAClasses = []string{
	"plane", "ship", "storage tank", "baseball diamond", "tennis court",
	"basketball court", "ground track field", "harbor", "bridge",
	"large vehicle", "small vehicle", "helicopter", "roundabout",
	"soccer ball field", "swimming pool",
}

// ClassName returns the label for a class ID. IDs outside the label set map
// to a synthetic placeholder name rather than failing.
func ClassName(classID int) string {
	if classID >= 0 && classID < len(DOTAClasses) {
		return DOTAClasses[classID]
	}
	return fmt.Sprintf("unknown_%d", classID)
}

// ClassMapping returns a mapping of class names to their IDs.
func ClassMapping() map[string]int {
	mapping := make(map[string]int)
	for i, className := range DOTAClasses {
		mapping[className] = i
	}
	return mapping
}
