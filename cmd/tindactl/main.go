// Command tindactl manages a TindaPH database: schema, demo data, admin
// accounts and a quick dashboard.
package main

import "github.com/tindaph/tinda-backend/cmd/tindactl/commands"

func main() {
	commands.Execute()
}
