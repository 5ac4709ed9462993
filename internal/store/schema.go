package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names.
const (
	banksTable        = "banks"
	questionsTable    = "questions"
	explanationsTable = "explanations"
	resultsTable      = "results"
)

const textSize = 2147483647

var (
	// BanksColumns holds the columns of the "banks" table.
	BanksColumns = []*schema.Column{
		{Name: "name", Type: field.TypeString, Unique: true},
		{Name: "title", Type: field.TypeString, Default: ""},
		{Name: "version", Type: field.TypeString},
		{Name: "question_count", Type: field.TypeInt},
		{Name: "imported_at", Type: field.TypeTime},
	}
	// BanksTable holds the schema information for the "banks" table.
	BanksTable = &schema.Table{
		Name:       banksTable,
		Columns:    BanksColumns,
		PrimaryKey: []*schema.Column{BanksColumns[0]},
	}

	// QuestionsColumns holds the columns of the "questions" table.
	QuestionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "position", Type: field.TypeInt},
		{Name: "question_id", Type: field.TypeString, Unique: true},
		{Name: "text", Type: field.TypeString, Size: textSize},
		{Name: "options", Type: field.TypeJSON},
		{Name: "correct", Type: field.TypeJSON},
		{Name: "explanation", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "bank_name", Type: field.TypeString},
	}
	// QuestionsTable holds the schema information for the "questions" table.
	QuestionsTable = &schema.Table{
		Name:       questionsTable,
		Columns:    QuestionsColumns,
		PrimaryKey: []*schema.Column{QuestionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "questions_banks_questions",
				Columns:    []*schema.Column{QuestionsColumns[7]},
				RefColumns: []*schema.Column{BanksColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "question_bank_name_position",
				Unique:  true,
				Columns: []*schema.Column{QuestionsColumns[7], QuestionsColumns[1]},
			},
		},
	}

	// ExplanationsColumns holds the columns of the "explanations" table.
	ExplanationsColumns = []*schema.Column{
		{Name: "question_id", Type: field.TypeString, Unique: true},
		{Name: "model", Type: field.TypeString},
		{Name: "content", Type: field.TypeJSON},
		{Name: "created_at", Type: field.TypeTime},
	}
	// ExplanationsTable holds the schema information for the "explanations" table.
	ExplanationsTable = &schema.Table{
		Name:       explanationsTable,
		Columns:    ExplanationsColumns,
		PrimaryKey: []*schema.Column{ExplanationsColumns[0]},
	}

	// ResultsColumns holds the columns of the "results" table.
	ResultsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "session_id", Type: field.TypeString, Unique: true},
		{Name: "mode", Type: field.TypeString},
		{Name: "total", Type: field.TypeInt},
		{Name: "correct", Type: field.TypeInt},
		{Name: "incorrect", Type: field.TypeInt},
		{Name: "unanswered", Type: field.TypeInt},
		{Name: "score", Type: field.TypeInt},
		{Name: "max_score", Type: field.TypeInt},
		{Name: "passed", Type: field.TypeBool},
		{Name: "termination", Type: field.TypeString},
		{Name: "started_at", Type: field.TypeTime},
		{Name: "finished_at", Type: field.TypeTime},
	}
	// ResultsTable holds the schema information for the "results" table.
	ResultsTable = &schema.Table{
		Name:       resultsTable,
		Columns:    ResultsColumns,
		PrimaryKey: []*schema.Column{ResultsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "result_finished_at",
				Unique:  false,
				Columns: []*schema.Column{ResultsColumns[12]},
			},
			{
				Name:    "result_mode",
				Unique:  false,
				Columns: []*schema.Column{ResultsColumns[2]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		BanksTable,
		QuestionsTable,
		ExplanationsTable,
		ResultsTable,
	}
)

func init() {
	QuestionsTable.ForeignKeys[0].RefTable = BanksTable
}
