package preprocess

// ProjectConfig says which of the split columns hold free text and which
// hold codes for one project.
type ProjectConfig struct {
	TextualColumns []string `yaml:"textual_columns" json:"textual_columns"`
	CodedColumns   []string `yaml:"coded_columns" json:"coded_columns"`
}

// ValueFix rewrites values of one column, optionally only for one source table.
type ValueFix struct {
	// Dataset limits the fix to the source table with this name.
	Dataset string            `yaml:"dataset" json:"dataset"`
	Column  string            `yaml:"column" json:"column"`
	Replace map[string]string `yaml:"replace" json:"replace"`
	// Set, when non-empty, overwrites every value of Column.
	Set string `yaml:"set" json:"set"`
}

// Config drives the preprocessing stage. The zero value is not useful;
// start from DefaultConfig.
type Config struct {
	// CleanColumns have placeholder values blanked before anything else.
	CleanColumns []string `yaml:"clean_columns" json:"clean_columns"`
	// TextColumns are normalized with the record's language rules.
	TextColumns     []string          `yaml:"text_columns" json:"text_columns"`
	LanguageAliases map[string]string `yaml:"language_aliases" json:"language_aliases"`
	ValueFixes      []ValueFix        `yaml:"value_fixes" json:"value_fixes"`
	// ExcludedDatabases drops rows whose database column matches exactly.
	ExcludedDatabases []string          `yaml:"excluded_databases" json:"excluded_databases"`
	DatabaseMapping   map[string]string `yaml:"database_mapping" json:"database_mapping"`
	MetadataColumns   []string          `yaml:"metadata_columns" json:"metadata_columns"`
	ColumnMapping     map[string]string `yaml:"column_mapping" json:"column_mapping"`
	ExtraColumns      []string          `yaml:"extra_columns" json:"extra_columns"`
	// SplitColumns are copied into <col>_text or <col>_code per project.
	SplitColumns []string                 `yaml:"split_columns" json:"split_columns"`
	Projects     map[string]ProjectConfig `yaml:"projects" json:"projects"`
	Deduplicate  bool                     `yaml:"deduplicate" json:"deduplicate"`
}

// DefaultConfig returns the configuration used for the STS fleet exports.
func DefaultConfig() Config {
	return Config{
		CleanColumns: []string{"observation", "solution", "observationcategory", "solutioncategory", "problemcause"},
		TextColumns:  []string{"observationcategory", "observation", "problemcause", "solutioncategory", "solution"},
		LanguageAliases: map[string]string{
			"ENGLISH": "English",
			"RUS":     "Russian",
			"kazakh":  "Kazakh",
			"SWEDISH": "Swedish",
		},
		ValueFixes: []ValueFix{
			{Dataset: "LMRC", Column: "language", Replace: map[string]string{"ENGLISH": "English"}},
			{Dataset: "sts_222_emr", Column: "project", Set: "222 - EMR"},
			{Dataset: "sts_xtrapolis_chile", Column: "project", Replace: map[string]string{"MERVAL": "Merval", "merval": "Merval"}},
			{Dataset: "sts_u400", Column: "language", Replace: map[string]string{"ENGLISH": "English", "SPANISH": "Spanish"}},
		},
		ExcludedDatabases: []string{"STS_U400_6.0"},
		DatabaseMapping:   map[string]string{"Rex": "REX"},
		MetadataColumns: []string{
			"project", "fleet", "subsystem", "database", "observationcategory",
			"problemcode", "problemcause", "solutioncategory", "language",
			"failureclass", "date",
		},
		ColumnMapping: map[string]string{
			"observationcategory":                "observation_category",
			"problemcode":                        "problem_code",
			"problemcause":                       "problem_cause",
			"problemremedy":                      "problem_remedy",
			"functionallocation":                 "functional_location",
			"notificationsonumber":               "notifications_number",
			"solutioncategory":                   "solution_category",
			"pbscode":                            "pbs_code",
			"symptomcode":                        "symptom_code",
			"rootcause":                          "root_cause",
			"documentlink":                       "document_link",
			"minresourcesneed":                   "min_resources_need",
			"maxresourceneed":                    "max_resource_need",
			"themostfrequentvalueforresource":    "the_most_frequent_value_for_resource",
			"mintimeperoneperson":                "min_time_per_one_person",
			"maxtimeperoneperson":                "max_time_per_one_person",
			"averagetime":                        "average_time",
			"frequencyobs":                       "frequency_obs",
			"minresourcesneedsol":                "min_resources_need_sol",
			"maxresourceneedsol":                 "max_resource_need_sol",
			"themostfrequentvalueforresourcesol": "the_most_frequent_value_for_resource_sol",
			"mintimeperonepersonsol":             "min_time_per_one_person_sol",
			"maxtimeperonepersonsol":             "max_time_per_one_person_sol",
			"averagetimesol":                     "average_time_sol",
			"frequencysol":                       "frequency_sol",
			"failureclass":                       "failure_class",
		},
		ExtraColumns: []string{"category_id", "obs_id", "sol_category_id"},
		SplitColumns: []string{"observation_category", "problem_cause"},
		Projects: map[string]ProjectConfig{
			"LMRC":        {TextualColumns: []string{"problem_cause"}, CodedColumns: []string{"observation_category"}},
			"222 - EMR":   {TextualColumns: []string{"observation_category"}},
			"NS16":        {},
			"Dubai":       {TextualColumns: []string{"observation_category", "problem_cause"}},
			"IND_E_Loco":  {TextualColumns: []string{"problem_cause"}},
			"iTAC-Nantes": {TextualColumns: []string{"problem_cause"}},
			"Italy":       {TextualColumns: []string{"observation_category"}},
			"KZ4AT":       {CodedColumns: []string{"observation_category"}},
			"NET2":        {TextualColumns: []string{"observation_category", "problem_cause"}},
			"KZ8A":        {CodedColumns: []string{"problem_cause"}},
			"Panama":      {},
			"REG2N":       {TextualColumns: []string{"observation_category", "problem_cause"}},
			"REM":         {TextualColumns: []string{"observation_category"}, CodedColumns: []string{"problem_cause"}},
			"U400 - Lyon": {TextualColumns: []string{"observation_category"}},
			"VLINE RRSMC": {TextualColumns: []string{"observation_category", "problem_cause"}},
			"TIB":         {TextualColumns: []string{"observation_category"}},
			"Spain":       {TextualColumns: []string{"observation_category"}},
			"Merval":      {TextualColumns: []string{"problem_cause"}},
			"U400":        {TextualColumns: []string{"observation_category"}},
		},
		Deduplicate: true,
	}
}
