package config

type WorkerKeyStruct struct {
	ReevaluateStudentsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	ReevaluateStudentsQueue: "reevaluate_students_queue",
}
