// Package harness provides conformance testing for sieve model descriptors
// and filter requests.
//
// The harness loads a model registry, seeds an in-memory SQLite store with
// fixture tables, runs every case of a scenario through both query
// backends, and checks the results against the scenario's expectations.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	models: ../models            # file or directory, relative to the scenario
//	tables:
//	  products:
//	    - { id: 1, name: "Desk Lamp", price: 19.99 }
//	cases:
//	  - name: price_over_100
//	    request:
//	      model: products
//	      filter: "price:GT(100)"
//	      search: "lamp -shade"
//	      search_fields: [name]
//	      pairs:
//	        - { key: "status", value: "active" }
//	      strict: false
//	    expect:
//	      ids: [2, 4]
//	      validation_errors: [E202]
//	      dropped_clauses: [cost]
//	      dropped_fields: [cost]
//	      error: INVALID_FILTER
//
// # Backend Agreement
//
// Every case runs twice: as parameterized SQL against SQLite and as a CEL
// program over the same rows with relations embedded. A case fails when
// the two backends select different ids or order them differently, even
// if the scenario states no expected ids.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/products.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
