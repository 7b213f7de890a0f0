// Package comm provides the blocking collectives the phonon engine uses to
// share state between ranks: one-to-all broadcast and all-reduce sums.
//
// Every rank must issue the same sequence of collective calls. [Single] serves
// one-rank runs; [Hub] connects n in-process ranks, and [Run] launches them
// and aborts the whole group when any rank fails, so ranks blocked in a
// collective return [ErrAborted] instead of waiting forever.
package comm
