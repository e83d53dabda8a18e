package schema

import (
	"fmt"
	"strings"

	"github.com/TFMV/surrealmeter/types"
	surrealdb "github.com/surrealdb/surrealdb.go"
)

// Table names.
const (
	TableRuns      = "runs"
	TableResources = "resources"
	TableMeasures  = "measures"
	TableIssues    = "issues"
	TableTrees     = "trees"
)

func kindList() string {
	kinds := types.ResourceKinds()
	quoted := make([]string, len(kinds))
	for i, k := range kinds {
		quoted[i] = `"` + string(k) + `"`
	}
	return strings.Join(quoted, ", ")
}

// Definitions returns the table and index definitions, one statement group per table.
func Definitions() []string {
	return []string{
		// Define runs table
		`DEFINE TABLE runs SCHEMAFULL;
		 DEFINE FIELD run_id ON runs TYPE string;
		 DEFINE FIELD project ON runs TYPE string;
		 DEFINE FIELD languages ON runs TYPE array<string>;
		 DEFINE FIELD resources ON runs TYPE int;
		 DEFINE FIELD issues ON runs TYPE int;
		 DEFINE FIELD stored_at ON runs TYPE datetime;
		 DEFINE INDEX run_id ON runs FIELDS run_id UNIQUE;`,

		// Define resources table
		`DEFINE TABLE resources SCHEMAFULL;
		 DEFINE FIELD key ON resources TYPE string;
		 DEFINE FIELD name ON resources TYPE string;
		 DEFINE FIELD long_name ON resources TYPE string;
		 DEFINE FIELD kind ON resources TYPE string ASSERT $value INSIDE [` + kindList() + `];
		 DEFINE FIELD qualifier ON resources TYPE option<string>;
		 DEFINE FIELD language ON resources TYPE option<string>;
		 DEFINE FIELD path ON resources TYPE option<string>;
		 DEFINE FIELD parent_key ON resources TYPE option<string>;
		 DEFINE FIELD run_id ON resources TYPE string;
		 DEFINE FIELD created_at ON resources TYPE datetime DEFAULT time::now();
		 DEFINE INDEX resource_key ON resources FIELDS run_id, key UNIQUE;
		 DEFINE INDEX resource_parent ON resources FIELDS run_id, parent_key;
		 DEFINE INDEX resource_kind ON resources FIELDS kind;`,

		// Define measures table
		`DEFINE TABLE measures SCHEMAFULL;
		 DEFINE FIELD resource_key ON measures TYPE string;
		 DEFINE FIELD metric_key ON measures TYPE string;
		 DEFINE FIELD value ON measures TYPE option<number>;
		 DEFINE FIELD data ON measures TYPE option<string>;
		 DEFINE FIELD precision ON measures TYPE option<int>;
		 DEFINE FIELD run_id ON measures TYPE string;
		 DEFINE INDEX measure_resource ON measures FIELDS run_id, resource_key;
		 DEFINE INDEX measure_metric ON measures FIELDS metric_key;`,

		// Define issues table
		`DEFINE TABLE issues SCHEMAFULL;
		 DEFINE FIELD rule_key ON issues TYPE string;
		 DEFINE FIELD repository ON issues TYPE string;
		 DEFINE FIELD resource_key ON issues TYPE string;
		 DEFINE FIELD path ON issues TYPE string;
		 DEFINE FIELD line ON issues TYPE int;
		 DEFINE FIELD message ON issues TYPE string;
		 DEFINE FIELD severity ON issues TYPE string;
		 DEFINE FIELD run_id ON issues TYPE string;
		 DEFINE INDEX issue_rule ON issues FIELDS rule_key;
		 DEFINE INDEX issue_resource ON issues FIELDS run_id, resource_key;`,

		// Define trees table
		`DEFINE TABLE trees SCHEMAFULL;
		 DEFINE FIELD key ON trees TYPE string;
		 DEFINE FIELD language ON trees TYPE string;
		 DEFINE FIELD data ON trees TYPE string;
		 DEFINE FIELD run_id ON trees TYPE string;
		 DEFINE INDEX tree_key ON trees FIELDS run_id, key UNIQUE;`,
	}
}

// InitializeSchema sets up the database schema and indexes for SurrealMeter
func InitializeSchema(db *surrealdb.DB) error {
	// Execute each schema definition
	for _, schema := range Definitions() {
		if _, err := surrealdb.Query[any](db, schema, map[string]interface{}{}); err != nil {
			return fmt.Errorf("schema initialization error: %w", err)
		}
	}

	return nil
}
