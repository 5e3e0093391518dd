/*
Package ports defines the driven ports (interfaces) for loading and persisting metamodel documents.

The validator core never touches disk, network or caches: it is handed the
metamodel bytes. These interfaces decouple where those bytes come from, allowing
the CLI and services to work with local files, an upstream URL or a shared cache.

# Key Interfaces

  - MetamodelSource: Produces a metamodel document (file, memory, remote URL, cache).
  - MetamodelStore: A MetamodelSource that can also persist a document (file, memory, Redis).
*/
package ports
