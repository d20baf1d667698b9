package domain

type Faculty struct {
	Id   FacultyId `bson:"_id" json:"id"`
	Name string    `bson:"name" json:"name"`
	Tags Tags      `bson:"tags" json:"tags"`
}

type Department struct {
	Id      DepartmentId `bson:"_id" json:"id"`
	Faculty FacultyId    `bson:"faculty_id" json:"faculty_id"`
	Name    string       `bson:"name" json:"name"`
	Tags    Tags         `bson:"tags" json:"tags"`
}

type Course struct {
	Id         CourseId     `bson:"_id" json:"id"`
	Department DepartmentId `bson:"department_id" json:"department_id"`
	Name       string       `bson:"name" json:"name"`
	Number     string       `bson:"number" json:"number"`
	Tags       Tags         `bson:"tags" json:"tags"`
}
