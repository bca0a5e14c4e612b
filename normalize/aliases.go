package normalize

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultAliases maps Arabic and abbreviated name tokens to the canonical
// English tokens used in the dataset's *_en columns. Keys are matched after
// cleaning, so entries are lowercase and diacritic-free. The table can be
// extended (or overridden) via an aliases YAML file.
var defaultAliases = map[string]string{
	// Arabic area and project name tokens.
	"المارينا": "marina",
	"مارينا":   "marina",
	"مرسى":     "marina",
	"دبي":      "dubai",
	"جميرا":    "jumeirah",
	"الجميرا":  "jumeirah",
	"النخلة":   "palm",
	"نخلة":     "palm",
	"برج":      "burj",
	"خليفة":    "khalifa",
	"العربية":  "arabian",
	"المرابع":  "ranches",
	"الينابيع": "springs",
	"البحيرات": "lakes",
	"التلال":   "hills",
	"الخليج":   "creek",
	"داماك":    "damac",
	"وسط":      "downtown",

	// Latin abbreviations seen in listing titles and URLs.
	"jbr":  "jumeirah beach residence",
	"jlt":  "jumeirah lake towers",
	"jvc":  "jumeirah village circle",
	"jvt":  "jumeirah village triangle",
	"difc": "dubai international financial centre",
	"apts": "apartments",
	"apt":  "apartment",
	"twr":  "tower",
	"res":  "residence",
	"bldg": "building",
}

// aliasFile is the on-disk shape of the alias table.
type aliasFile struct {
	Aliases map[string]string `yaml:"aliases"`
}

// LoadAliases reads an alias table from a YAML file. A missing file is not
// an error; the built-in defaults still apply.
func LoadAliases(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read aliases: %w", err)
	}

	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse aliases: %w", err)
	}
	return f.Aliases, nil
}
