// internal/regions/regions.go
package regions

// regionCountries maps each canonical region to its member countries.
var regionCountries = map[string][]string{
	"ASEAN": {
		"Brunei", "Cambodia", "Indonesia", "Laos", "Malaysia",
		"Myanmar", "Philippines", "Singapore", "Thailand", "Vietnam",
		"Timor-Leste",
	},
	"South Asia": {
		"Afghanistan", "Bangladesh", "Bhutan", "India", "Maldives",
		"Nepal", "Pakistan", "Sri Lanka",
	},
	"East Asia": {
		"China", "Japan", "South Korea", "North Korea",
		"Mongolia", "Taiwan", "Hong Kong", "Macao",
	},
	"Southeast Asia": {
		"Brunei", "Cambodia", "Indonesia", "Laos", "Malaysia",
		"Myanmar", "Philippines", "Singapore", "Thailand", "Vietnam",
		"Timor-Leste",
	},
	"Europe": {
		"Albania", "Andorra", "Austria", "Belarus", "Belgium",
		"Bosnia and Herzegovina", "Bulgaria", "Croatia", "Cyprus",
		"Czech Republic", "Denmark", "Estonia", "Finland", "France",
		"Germany", "Greece", "Hungary", "Iceland", "Ireland", "Italy",
		"Kosovo", "Latvia", "Liechtenstein", "Lithuania", "Luxembourg",
		"Macedonia", "Malta", "Moldova", "Monaco", "Montenegro",
		"Netherlands", "Norway", "Poland", "Portugal", "Romania",
		"Russia", "San Marino", "Serbia", "Slovakia", "Slovenia",
		"Spain", "Sweden", "Switzerland", "Turkey", "Ukraine",
		"United Kingdom", "Vatican City",
	},
	"Africa": {
		"Algeria", "Angola", "Benin", "Botswana", "Burkina Faso",
		"Burundi", "Cameroon", "Cape Verde", "Central African Republic",
		"Chad", "Comoros", "Democratic Republic of the Congo",
		"Republic of Congo", "Djibouti", "Egypt", "Equatorial Guinea",
		"Eritrea", "Ethiopia", "Gabon", "Gambia", "Ghana", "Guinea",
		"Guinea-Bissau", "Kenya", "Lesotho", "Liberia", "Libya",
		"Madagascar", "Malawi", "Mali", "Mauritania", "Mauritius",
		"Morocco", "Mozambique", "Namibia", "Niger", "Nigeria",
		"Rwanda", "Senegal", "Seychelles", "Sierra Leone", "Somalia",
		"South Africa", "South Sudan", "Sudan", "Swaziland",
		"Tanzania", "Togo", "Tunisia", "Uganda", "Zambia", "Zimbabwe",
	},
	"North America": {
		"Canada", "United States", "Mexico",
	},
	"South America": {
		"Argentina", "Bolivia", "Brazil", "Chile", "Colombia",
		"Ecuador", "Guyana", "Paraguay", "Peru", "Suriname",
		"Uruguay", "Venezuela",
	},
	"Central America": {
		"Belize", "Costa Rica", "El Salvador", "Guatemala",
		"Honduras", "Nicaragua", "Panama",
	},
	"Caribbean": {
		"Bahamas", "Barbados", "Cuba", "Dominica",
		"Dominican Republic", "Grenada", "Haiti", "Jamaica",
		"Saint Kitts and Nevis", "Saint Lucia",
		"Saint Vincent and the Grenadines",
		"Trinidad and Tobago",
	},
	"Middle East": {
		"Bahrain", "Iran", "Iraq", "Israel", "Jordan", "Kuwait",
		"Lebanon", "Oman", "Qatar", "Saudi Arabia", "Syria",
		"United Arab Emirates", "Yemen",
	},
	"Central Asia": {
		"Kazakhstan", "Kyrgyzstan", "Tajikistan", "Turkmenistan",
		"Uzbekistan",
	},
	"Oceania": {
		"Australia", "Fiji", "Kiribati", "Marshall Islands",
		"Micronesia", "Nauru", "New Zealand", "Palau",
		"Papua New Guinea", "Samoa", "Solomon Islands", "Tonga",
		"Tuvalu", "Vanuatu",
	},
}

// countrySynonyms normalizes variant country names to the form used in
// the reference data.
var countrySynonyms = map[string]string{
	"Viet Nam":                               "Vietnam",
	"Lao PDR":                                "Laos",
	"Lao People's Dem. Rep.":                 "Laos",
	"Czechia":                                "Czech Republic",
	"Korea, Republic of":                     "South Korea",
	"Russian Federation":                     "Russia",
	"Moldova, Republic of":                   "Moldova",
	"Macedonia, The former Yugoslav Rep. of": "Macedonia",
	"Sudan, The Republic of":                 "Sudan",
	"Congo, Democratic Republic of the":      "Democratic Republic of the Congo",
	"Hong Kong, China":                       "Hong Kong",
	"Taiwan, China":                          "Taiwan",
	"Serbia and Montenegro":                  "Serbia",
	"European Union":                         "EU",
	"USA":                                    "United States",
	"UK":                                     "United Kingdom",
	"UAE":                                    "United Arab Emirates",
}

// CanonicalCountry applies the synonym table to a country name.
func CanonicalCountry(name string) string {
	if canonical, ok := countrySynonyms[name]; ok {
		return canonical
	}
	return name
}
