package dataset

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ContinentUnknown is the explicit bucket for countries missing from the
// lookup table. Failing the lookup must never drop a row.
const ContinentUnknown = "Unknown"

// Continents is the fixed continent enumeration used across the pipeline.
var Continents = []string{"Africa", "Asia", "Europe", "North America", "Oceania", "South America"}

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeKey folds a raw country spelling to a join key: trimmed, upper
// case, single-spaced, diacritics stripped.
func normalizeKey(raw string) string {
	s := strings.TrimSpace(raw)
	if folded, _, err := transform.String(diacriticStripper, s); err == nil {
		s = folded
	}
	s = strings.ToUpper(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// aliases maps normalized spelling variants to the canonical display name.
// Applied before exact match so that per-domain files disagreeing on a
// country's name still land on one merged record.
var aliases = map[string]string{
	"UNITED STATES OF AMERICA":             "United States",
	"USA":                                  "United States",
	"US":                                   "United States",
	"UNITED KINGDOM OF GREAT BRITAIN":      "United Kingdom",
	"GREAT BRITAIN":                        "United Kingdom",
	"UK":                                   "United Kingdom",
	"RUSSIAN FEDERATION":                   "Russia",
	"KOREA, SOUTH":                         "South Korea",
	"KOREA SOUTH":                          "South Korea",
	"REPUBLIC OF KOREA":                    "South Korea",
	"KOREA, NORTH":                         "North Korea",
	"KOREA NORTH":                          "North Korea",
	"BURMA":                                "Myanmar",
	"COTE D'IVOIRE":                        "Ivory Coast",
	"CZECHIA":                              "Czech Republic",
	"TURKIYE":                              "Turkey",
	"UAE":                                  "United Arab Emirates",
	"DRC":                                  "Democratic Republic of the Congo",
	"CONGO, DEMOCRATIC REPUBLIC OF THE":    "Democratic Republic of the Congo",
	"CONGO, REPUBLIC OF THE":               "Republic of the Congo",
	"BAHAMAS, THE":                         "Bahamas",
	"GAMBIA, THE":                          "Gambia",
	"CABO VERDE":                           "Cape Verde",
	"HOLY SEE (VATICAN CITY)":              "Vatican City",
	"MICRONESIA, FEDERATED STATES OF":      "Micronesia",
	"SAO TOME AND PRINCIPE":                "Sao Tome and Principe",
	"TIMOR-LESTE":                          "East Timor",
	"SWAZILAND":                            "Eswatini",
	"MACEDONIA":                            "North Macedonia",
	"BOSNIA":                               "Bosnia and Herzegovina",
	"VIET NAM":                             "Vietnam",
	"LAO PEOPLE'S DEMOCRATIC REPUBLIC":     "Laos",
	"SYRIAN ARAB REPUBLIC":                 "Syria",
	"IRAN, ISLAMIC REPUBLIC OF":            "Iran",
	"TANZANIA, UNITED REPUBLIC OF":         "Tanzania",
	"VENEZUELA, BOLIVARIAN REPUBLIC OF":    "Venezuela",
	"BOLIVIA, PLURINATIONAL STATE OF":      "Bolivia",
	"MOLDOVA, REPUBLIC OF":                 "Moldova",
	"BRUNEI DARUSSALAM":                    "Brunei",
	"SAINT KITTS AND NEVIS":                "Saint Kitts and Nevis",
	"ANTIGUA AND BARBUDA":                  "Antigua and Barbuda",
	"TRINIDAD AND TOBAGO":                  "Trinidad and Tobago",
	"FALKLAND ISLANDS (ISLAS MALVINAS)":    "Falkland Islands",
}

// continentByCountry assigns each canonical country to its continent.
// Countries absent from the table fall into ContinentUnknown rather than
// being dropped.
var continentByCountry = map[string]string{}

func init() {
	byContinent := map[string][]string{
		"Asia": {
			"China", "India", "Japan", "South Korea", "North Korea", "Indonesia",
			"Thailand", "Vietnam", "Malaysia", "Philippines", "Singapore",
			"Bangladesh", "Pakistan", "Afghanistan", "Iran", "Iraq",
			"Saudi Arabia", "Yemen", "Syria", "Turkey", "Israel", "Jordan",
			"Lebanon", "United Arab Emirates", "Kuwait", "Qatar", "Bahrain",
			"Oman", "Azerbaijan", "Armenia", "Georgia", "Kazakhstan",
			"Uzbekistan", "Turkmenistan", "Kyrgyzstan", "Tajikistan",
			"Mongolia", "Myanmar", "Cambodia", "Laos", "Brunei", "East Timor",
			"Bhutan", "Nepal", "Sri Lanka", "Maldives", "Taiwan",
		},
		"Europe": {
			"United Kingdom", "Germany", "France", "Italy", "Spain", "Poland",
			"Romania", "Netherlands", "Belgium", "Czech Republic", "Greece",
			"Portugal", "Sweden", "Hungary", "Austria", "Bulgaria", "Denmark",
			"Finland", "Slovakia", "Norway", "Ireland", "Croatia",
			"Bosnia and Herzegovina", "Serbia", "Switzerland", "Albania",
			"Lithuania", "Slovenia", "Latvia", "North Macedonia", "Estonia",
			"Luxembourg", "Malta", "Iceland", "Montenegro", "Belarus",
			"Ukraine", "Russia", "Moldova", "Kosovo", "Andorra", "Monaco",
			"Liechtenstein", "San Marino", "Vatican City", "Cyprus",
		},
		"Africa": {
			"Nigeria", "Ethiopia", "Egypt", "Democratic Republic of the Congo",
			"Republic of the Congo", "South Africa", "Tanzania", "Kenya",
			"Uganda", "Algeria", "Sudan", "South Sudan", "Morocco", "Angola",
			"Ghana", "Mozambique", "Madagascar", "Cameroon", "Ivory Coast",
			"Niger", "Burkina Faso", "Mali", "Malawi", "Zambia", "Senegal",
			"Somalia", "Chad", "Zimbabwe", "Guinea", "Rwanda", "Benin",
			"Burundi", "Tunisia", "Togo", "Sierra Leone", "Libya", "Liberia",
			"Mauritania", "Eritrea", "Gambia", "Botswana", "Namibia", "Gabon",
			"Lesotho", "Guinea-Bissau", "Equatorial Guinea", "Mauritius",
			"Eswatini", "Djibouti", "Comoros", "Cape Verde",
			"Sao Tome and Principe", "Seychelles", "Central African Republic",
		},
		"North America": {
			"United States", "Canada", "Mexico", "Guatemala", "Cuba", "Haiti",
			"Dominican Republic", "Honduras", "Nicaragua", "El Salvador",
			"Costa Rica", "Panama", "Jamaica", "Trinidad and Tobago", "Belize",
			"Bahamas", "Barbados", "Saint Lucia", "Grenada",
			"Antigua and Barbuda", "Dominica", "Saint Kitts and Nevis",
			"Saint Vincent and the Grenadines",
		},
		"South America": {
			"Brazil", "Colombia", "Argentina", "Peru", "Venezuela", "Chile",
			"Ecuador", "Bolivia", "Paraguay", "Uruguay", "Guyana", "Suriname",
			"Falkland Islands",
		},
		"Oceania": {
			"Australia", "Papua New Guinea", "New Zealand", "Fiji",
			"Solomon Islands", "Micronesia", "Vanuatu", "Samoa", "Kiribati",
			"Tonga", "Palau", "Tuvalu", "Nauru", "Marshall Islands",
		},
	}
	for continent, countries := range byContinent {
		for _, c := range countries {
			continentByCountry[c] = continent
			canonicalByKey[normalizeKey(c)] = c
		}
	}
}

// canonicalID resolves a raw country spelling to the canonical record ID.
// Resolution order: alias table, then the canonical country list, then the
// cleaned-up raw spelling itself so unmatched territories are retained.
func canonicalID(raw string) string {
	key := normalizeKey(raw)
	if canon, ok := aliases[key]; ok {
		return canon
	}
	if canon, ok := canonicalByKey[key]; ok {
		return canon
	}
	return strings.Join(strings.Fields(strings.TrimSpace(raw)), " ")
}

// canonicalByKey indexes known canonical names by their normalized form so
// that casing and diacritic variants of a canonical name still match. It is
// filled alongside continentByCountry.
var canonicalByKey = map[string]string{}

// continentOf returns the continent for a canonical ID, or ContinentUnknown.
func continentOf(id string) string {
	if c, ok := continentByCountry[id]; ok {
		return c
	}
	return ContinentUnknown
}
