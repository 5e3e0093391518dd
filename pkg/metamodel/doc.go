/*
Package metamodel compiles a Concerto metamodel document into an immutable type registry.

A metamodel document is a JSON object with a "namespace" and an ordered list of
"declarations". Each declaration names a type, lists its properties and may
extend a supertype:

	{
	  "namespace": "org.example",
	  "declarations": [{
	    "$class": "concerto.metamodel@1.0.0.ConceptDeclaration",
	    "name": "Person",
	    "isAbstract": false,
	    "properties": [{
	      "$class": "concerto.metamodel@1.0.0.StringProperty",
	      "name": "firstName", "isArray": false, "isOptional": false
	    }]
	  }]
	}

Build checks the envelope, decodes every declaration into the closed
DeclarationKind and PropertyKind variants, indexes them as "namespace.name"
and resolves each supertype chain up front. Later declarations with the same
qualified name replace earlier ones (see Registry.Duplicates).

The Concerto metamodel itself ships embedded and is returned by System.
*/
package metamodel
