package main

import (
	"fmt"
	"os"

	"github.com/jumppad-labs/personfile"
	"github.com/jumppad-labs/personfile/resources"
	"github.com/jumppad-labs/personfile/types"
)

func main() {
	o := personfile.DefaultOptions()

	// set the callback that will be executed when a resource has been
	// processed, this function can be used to execute any external work
	// required for the resource.
	o.ParseCallback = func(r types.Resource) error {
		fmt.Printf("  resource '%s' named '%s' has been parsed from the file: %s\n", r.Metadata().Type, r.Metadata().Name, r.Metadata().File)
		return nil
	}

	p := personfile.NewParser(o)

	// register a custom function that can be used in config files
	p.RegisterFunction("initials", func(first, last string) string {
		return fmt.Sprintf("%c.%c.", first[0], last[0])
	})

	fmt.Println("## Parse the config")
	c, err := p.ParseFile("./config.hcl")
	if err != nil {
		fmt.Printf("An error occurred processing the config: %s\n", err)
		os.Exit(1)
	}

	fmt.Println("")
	fmt.Println("## Dump config")

	for _, r := range c.Resources {
		switch r.Metadata().Type {
		case resources.TypePerson:
			person := r.(*resources.Person)
			fmt.Println("  ", person)

			name, err := person.Name()
			if err != nil {
				fmt.Printf("An error occurred reading the name: %s\n", err)
				os.Exit(1)
			}

			fmt.Println("   full name:", name)
		case types.TypeOutput:
			output := r.(*resources.Output)
			fmt.Printf("   output %s=%v\n", output.Meta.Name, output.Value)
		}
	}

	// records can also be created directly without any config
	ada := resources.NewPerson("ada",
		resources.WithFirstName("Ada"),
		resources.WithLastName("Lovelace"),
	)

	fmt.Println("")
	fmt.Println("## Created without config")
	fmt.Println("  ", ada)

	// persist the parsed config so it can be reloaded later
	store := personfile.NewFileStateStore("", resources.DefaultResources())
	if err := store.Save(c); err != nil {
		fmt.Printf("An error occurred saving the state: %s\n", err)
		os.Exit(1)
	}
}
