// Package symtab owns format-string symbol table recovery.
//
// Ownership boundary:
// - object-file section location (SectionLocator)
// - metadata section parsing
// - table construction and eager validation
package symtab
