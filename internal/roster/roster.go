// Package roster loads the exported connections file.
package roster

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/jawnty/li-analyzer/internal/tabular"
)

var requiredColumns = []string{
	"First Name", "Last Name", "URL", "Email Address", "Company", "Position", "Connected On",
}

// Connection is a single exported contact. Immutable once loaded.
type Connection struct {
	FirstName   string `mapstructure:"First Name"`
	LastName    string `mapstructure:"Last Name"`
	URL         string `mapstructure:"URL"`
	Email       string `mapstructure:"Email Address"`
	Company     string `mapstructure:"Company"`
	Position    string `mapstructure:"Position"`
	ConnectedOn string `mapstructure:"Connected On"`
}

// Connections keeps the input order of the export file; downstream
// tie-breaks depend on it.
type Connections struct {
	Items []*Connection
}

func (c *Connections) Len() int {
	return len(c.Items)
}

// Load reads the connections file and decodes every row. The column set is
// a contract: a missing column is fatal before any row is touched.
func Load(path string) (*Connections, error) {
	table, err := tabular.Read(path)
	if err != nil {
		return nil, err
	}

	if err := table.Require(requiredColumns...); err != nil {
		return nil, fmt.Errorf("connections file: %w", err)
	}

	connections := &Connections{Items: make([]*Connection, 0, table.Len())}
	for i := 0; i < table.Len(); i++ {
		var conn Connection
		if err := mapstructure.Decode(table.RowMap(i), &conn); err != nil {
			return nil, fmt.Errorf("decode connection row %d: %w", i+1, err)
		}
		connections.Items = append(connections.Items, &conn)
	}

	return connections, nil
}
