/*
Package concerto validates JSON abstract syntax trees against a self-describing metamodel.

A metamodel is a list of type declarations (concepts, assets, participants,
transactions, events), each with named, typed, optionally-array,
optionally-required properties and an optional supertype. The metamodel is
itself written in the format it validates, so the embedded Concerto metamodel
can check any metamodel document, including itself.

# Concept

The Validator is built once from a metamodel document. Construction compiles
the type registry, resolves supertype chains and pre-compiles every string
validator pattern; any problem surfaces here as a metamodel-malformed error.
After that the Validator is read-only and can serve any number of concurrent calls.

Each call walks the instance depth-first and stops at the first violation:

  - the value must be an object with a "$class" naming a declared type;
  - every key must be a declared property (own or inherited);
  - every non-optional property must be present;
  - array properties take arrays, scalar properties never do;
  - leaves are checked by kind (String with optional pattern, Boolean,
    Integer, Long, Double, DateTime, Relationship) and nested objects are
    validated as resources in their own right.

Violations are *domain.ValidationError values carrying an ErrorKind, the JSON
path of the offending value and the names involved. Use errors.Is with the
domain sentinels (domain.ErrUnknownClass, domain.ErrMissingRequiredProperty...)
to branch on the kind.

# Usage

	package main

	import (
		"log"
		"os"

		"github.com/aretw0/concerto"
	)

	func main() {
		model, err := os.ReadFile("model.json")
		if err != nil {
			log.Fatal(err)
		}

		v, err := concerto.New(model)
		if err != nil {
			log.Fatal(err) // the metamodel itself is broken
		}

		if err := v.Validate([]byte(`{"$class":"org.acme.Person","name":"Ada"}`)); err != nil {
			log.Printf("invalid: %v", err)
		}
	}

Use NewSystem to validate metamodel documents against the embedded Concerto
metamodel, and ValidateFiles to check many files concurrently.
*/
package concerto
