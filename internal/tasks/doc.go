// Package tasks runs long catalog jobs in the background with progress reporting.
//
// # Poster downloads
//
// [PosterEngine.BulkDownload] fetches the poster of every movie it is given using a
// bounded worker pool:
//   - a producer feeds jobs through a [golang.org/x/time/rate] limiter
//   - workers fetch images and write them under the output directory
//   - failures are recorded per movie and never abort the run
//   - a poster_manifest.json summarizing the run is written last
//
// # Progress Reporting
//
// All operations accept an optional channel of [ProgressUpdate]. Sends use select with
// default so a slow or absent reader never blocks a download.
package tasks
