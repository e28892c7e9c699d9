// Package fs provides the filesystem seam used to write run artifacts.
//
//   - [FileSystem]: the operations artifact writers need (open, rename, remove, ...)
//   - [LocalFS]: production implementation using the os package
//   - [FaultyFS]: test utility that injects write, sync and close failures
//   - [WriteFileAtomic]: temp-file + fsync + rename, so a failed write never
//     leaves a file at the final path that looks valid
//
// Production code uses fs.Default:
//
//	err := fs.WriteFileAtomic(fs.Default, path, func(w io.Writer) error {
//	    return component.Save(w, comps)
//	})
package fs
