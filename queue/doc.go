/*
Package queue defines the tasks to be performed to grow a rule tree
breadth-first as well as the FIFO queue holding them.
*/
package queue
