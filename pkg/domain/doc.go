/*
Package domain contains the core data types shared by every layer of the validator.

It defines the ordered JSON value tree that instance documents are parsed into,
the JSON path used to locate a violation, and the error taxonomy returned by
validation. This package is kept pure and free of external dependencies
like I/O or parsing, so adapters and the engine can agree on one vocabulary.

# Key Entities

  - Value: An immutable JSON value whose object members keep document key order.
  - Path: A JSONPath-like locator ("$.customer.address[1]") for error reporting.
  - ValidationError: A typed failure carrying an ErrorKind, the path and the offending names.
*/
package domain
