package concerto_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/aretw0/concerto"
	"github.com/aretw0/concerto/pkg/domain"
)

const exampleModel = `{
  "$class": "concerto.metamodel@1.0.0.Model",
  "namespace": "org.acme",
  "declarations": [
    {
      "$class": "concerto.metamodel@1.0.0.ConceptDeclaration",
      "name": "Person",
      "isAbstract": false,
      "properties": [
        {"$class": "concerto.metamodel@1.0.0.StringProperty", "name": "name", "isArray": false, "isOptional": false},
        {"$class": "concerto.metamodel@1.0.0.IntegerProperty", "name": "age", "isArray": false, "isOptional": true}
      ]
    }
  ]
}`

// ExampleNew compiles a small metamodel and validates two instances against it.
func ExampleNew() {
	v, err := concerto.New([]byte(exampleModel))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(v.Validate([]byte(`{"$class":"org.acme.Person","name":"Ada","age":36}`)))

	err = v.Validate([]byte(`{"$class":"org.acme.Person","age":36}`))
	fmt.Println(err)
	fmt.Println(errors.Is(err, domain.ErrMissingRequiredProperty))

	// Output:
	// <nil>
	// missing required property: "name" for type org.acme.Person (at $)
	// true
}

// ExampleNewSystem checks a metamodel document against the Concerto metamodel itself.
func ExampleNewSystem() {
	system, err := concerto.NewSystem()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(system.Validate([]byte(exampleModel)))

	err = system.Validate([]byte(`{"$class":"concerto.metamodel@1.0.0.Model"}`))
	fmt.Println(domain.KindOf(err).Code())

	// Output:
	// <nil>
	// missing_required_property
}
