// Package storage provides file management functionality for the animal
// image pipeline.
//
// The storage package handles:
//   - Creating and managing the image output directory
//   - Saving images with atomic write operations
//   - Listing and pruning saved files for the curator
//   - Writing the provenance CSV that records where each image came from
//
// The Manager type is the primary interface for storage operations. It
// maintains an in-memory set of saved filenames and provides atomic
// file writing to prevent corruption. NewManager creates the output
// directory when it is missing; OpenManager refuses to, so read-only
// consumers fail loudly on a bad path.
//
// The MetadataWriter type appends one CSV row per saved image and
// flushes after each row, so an interrupted run keeps the provenance
// for everything already on disk.
//
// Usage:
//
//	manager, err := storage.NewManager("animals")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = manager.SaveFile(imageReader, "Lion_portrait.jpg")
//	if err != nil {
//	    log.Printf("Failed to save image: %v", err)
//	}
package storage
