package pushindexer

//////
// Const, vars, and types.
//////

// Field types used by the commit index.
const (
	FieldTypeDate    = "date"
	FieldTypeKeyword = "keyword"
	FieldTypeText    = "text"
)

// Default index settings.
const (
	DefaultNumberOfShards   = 3
	DefaultNumberOfReplicas = 0
)

// FieldMapping is the mapping of a single field.
type FieldMapping struct {
	Type string `json:"type"`
}

// Mappings of an index.
type Mappings struct {
	Properties map[string]FieldMapping `json:"properties"`
}

// IndexSettings are the `settings.index` values of an index.
type IndexSettings struct {
	NumberOfShards   int `json:"number_of_shards"`
	NumberOfReplicas int `json:"number_of_replicas"`
}

// Settings of an index.
type Settings struct {
	Index IndexSettings `json:"index"`
}

// IndexSchema is the body of a create-index request.
type IndexSchema struct {
	Mappings Mappings `json:"mappings"`
	Settings Settings `json:"settings"`
}

//////
// Factory.
//////

// DefaultIndexSchema returns the schema commit documents are indexed with.
func DefaultIndexSchema() IndexSchema {
	return IndexSchema{
		Mappings: Mappings{
			Properties: map[string]FieldMapping{
				"repository_name": {Type: FieldTypeKeyword},
				"branch_name":     {Type: FieldTypeKeyword},
				"commit_sha":      {Type: FieldTypeText},
				"commit_message":  {Type: FieldTypeText},
				"author_name":     {Type: FieldTypeKeyword},
				"commit_url":      {Type: FieldTypeText},
				"added_files":     {Type: FieldTypeText},
				"removed_files":   {Type: FieldTypeText},
				"modified_files":  {Type: FieldTypeText},
				"date":            {Type: FieldTypeDate},
			},
		},
		Settings: Settings{
			Index: IndexSettings{
				NumberOfShards:   DefaultNumberOfShards,
				NumberOfReplicas: DefaultNumberOfReplicas,
			},
		},
	}
}
